package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fintrack/internal/core"
)

// maxAttempts bounds interactive retries. Invalid input re-prompts a
// fixed number of times instead of recursing without limit.
const maxAttempts = 3

// ErrTooManyAttempts is returned after maxAttempts invalid inputs; the
// caller decides whether to start over or abort.
var ErrTooManyAttempts = errors.New("too many invalid attempts")

// categoryShortcuts maps single-letter input onto the enumeration.
var categoryShortcuts = map[string]core.Category{
	"I": core.Income,
	"E": core.Expense,
}

// Prompter reads and validates interactive input line by line.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

func (p *Prompter) readLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// Date prompts for a date in the ledger's fixed format. When
// allowDefault is true, empty input means today.
func (p *Prompter) Date(prompt string, allowDefault bool) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		line, err := p.readLine(prompt)
		if err != nil {
			return "", err
		}
		if line == "" && allowDefault {
			return core.Today().String(), nil
		}
		if d, err := core.ParseDate(line); err == nil {
			return d.String(), nil
		}
		fmt.Fprintf(p.out, "Invalid date, expected DD-MM-YYYY.\n")
	}
	return "", ErrTooManyAttempts
}

// Amount prompts for a strictly positive decimal amount.
func (p *Prompter) Amount() (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		line, err := p.readLine("Enter the amount: ")
		if err != nil {
			return "", err
		}
		if a, err := core.ParseAmount(line); err == nil {
			return a.String(), nil
		}
		fmt.Fprintf(p.out, "Amount must be a positive number.\n")
	}
	return "", ErrTooManyAttempts
}

// Category prompts for a category, accepting the I/E shortcuts as well
// as the full names.
func (p *Prompter) Category() (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		line, err := p.readLine("Enter the category ('I' for Income or 'E' for Expense): ")
		if err != nil {
			return "", err
		}
		if c, ok := categoryShortcuts[strings.ToUpper(line)]; ok {
			return string(c), nil
		}
		if c, err := core.ParseCategory(line); err == nil {
			return string(c), nil
		}
		fmt.Fprintf(p.out, "Invalid category, enter 'I' for Income or 'E' for Expense.\n")
	}
	return "", ErrTooManyAttempts
}

// Description prompts for a non-empty description. The record model
// itself allows empty text; the interactive path does not.
func (p *Prompter) Description() (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		line, err := p.readLine("Enter the description: ")
		if err != nil {
			return "", err
		}
		if line != "" {
			return line, nil
		}
		fmt.Fprintf(p.out, "Description cannot be empty.\n")
	}
	return "", ErrTooManyAttempts
}

// TransactionID prompts for a positive transaction id.
func (p *Prompter) TransactionID() (int64, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		line, err := p.readLine("Enter transaction ID: ")
		if err != nil {
			return 0, err
		}
		if id, err := strconv.ParseInt(line, 10, 64); err == nil && id > 0 {
			return id, nil
		}
		fmt.Fprintf(p.out, "Transaction ID must be a positive integer.\n")
	}
	return 0, ErrTooManyAttempts
}
