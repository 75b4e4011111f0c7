// Package terminal is a line-oriented front end for the person list.
// It renders personlist views as text and maps typed commands onto the
// model's actions.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/debitum/internal/calculator"
	"github.com/mmynk/debitum/internal/models"
	"github.com/mmynk/debitum/internal/personlist"
)

// Ledger is what the terminal needs from its backend: the list screen
// collaborator plus transaction history.
type Ledger interface {
	personlist.Collaborator
	Transactions(ctx context.Context, id models.PersonID) ([]models.Transaction, error)
}

var (
	errQuit       = errors.New("quit")
	errUsage      = errors.New("usage")
	errBadRow     = errors.New("no such row")
	errBadAmount  = errors.New("amount must be a number with at most two decimals")
	errNoSelected = errors.New("nothing selected")
)

const help = `Commands:
  list                        show the person list
  add <name>                  add a person
  select|deselect|toggle <n>  change the selection of row n
  clear                       clear the selection
  edit <name>                 rename the selected person
  delete                      delete the selected persons
  tx <n> <amount> [items] [note]
                              record a transaction for row n (amount > 0: they owe you)
  show <n>                    list the transactions of row n
  help                        show this help
  quit                        exit`

// REPL reads commands and prints views. Views are printed whenever the
// model publishes one, so changes made elsewhere show up too.
type REPL struct {
	ledger    Ledger
	model     *personlist.Model
	formatter *calculator.Formatter
	styles    Styles
	logger    *slog.Logger

	outMu sync.Mutex
	out   io.Writer

	viewMu sync.Mutex
	view   personlist.View
}

// New creates a REPL writing to out.
func New(ledger Ledger, formatter *calculator.Formatter, out io.Writer, logger *slog.Logger) *REPL {
	if logger == nil {
		logger = slog.Default()
	}
	r := &REPL{
		ledger:    ledger,
		formatter: formatter,
		styles:    DefaultStyles(),
		logger:    logger,
		out:       out,
	}
	r.model = personlist.New(ledger, r.render, logger)
	return r
}

// Run processes commands from in until quit, EOF or ctx is done.
func (r *REPL) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := r.model.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		defer cancel()
		r.println(r.styles.Muted.Render(`Type "help" for commands.`))

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			err := r.Exec(ctx, scanner.Text())
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				r.println(r.styles.Error.Render("error: " + message(err)))
			}
			if ctx.Err() != nil {
				return nil
			}
		}
		return scanner.Err()
	})
	return g.Wait()
}

// Exec runs one command line.
func (r *REPL) Exec(ctx context.Context, line string) error {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "":
		return nil
	case "help", "?":
		r.println(help)
	case "quit", "exit", "q":
		return errQuit
	case "list", "ls":
		r.render(r.model.View())
	case "add":
		person, err := r.model.Add(ctx, rest)
		if err != nil {
			return err
		}
		r.println("Added " + person.Name)
	case "select":
		return r.withRow(rest, r.model.Select)
	case "deselect":
		return r.withRow(rest, r.model.Deselect)
	case "toggle":
		return r.withRow(rest, r.model.Toggle)
	case "clear":
		r.model.ClearSelection()
	case "edit":
		person, err := r.model.EditSelected(ctx, rest)
		if err != nil {
			return err
		}
		r.println("Renamed to " + person.Name)
	case "delete", "rm":
		if len(r.model.View().Selected) == 0 {
			return errNoSelected
		}
		n, err := r.model.DeleteSelected(ctx)
		if err != nil {
			return err
		}
		r.println(fmt.Sprintf("Deleted %d %s", n, plural(n, "person", "persons")))
	case "tx":
		return r.addTransaction(ctx, rest)
	case "show":
		return r.showTransactions(ctx, rest)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
	return nil
}

func (r *REPL) withRow(arg string, fn func(models.PersonID) error) error {
	id, err := r.rowID(arg)
	if err != nil {
		return err
	}
	return fn(id)
}

// rowID maps a 1-based row number of the last printed view to a person ID.
func (r *REPL) rowID(arg string) (models.PersonID, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return "", fmt.Errorf("%w: expected a row number, got %q", errUsage, arg)
	}
	r.viewMu.Lock()
	defer r.viewMu.Unlock()
	if n < 1 || n > len(r.view.Summary.Rows) {
		return "", fmt.Errorf("%w: %d", errBadRow, n)
	}
	return r.view.Summary.Rows[n-1].Person.ID, nil
}

func (r *REPL) addTransaction(ctx context.Context, args string) error {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return fmt.Errorf("%w: tx <n> <amount> [items] [note]", errUsage)
	}
	id, err := r.rowID(fields[0])
	if err != nil {
		return err
	}
	amount, err := parseCents(fields[1])
	if err != nil {
		return err
	}

	tx := &models.Transaction{PersonID: id, Amount: amount}
	note := fields[2:]
	if len(note) > 0 {
		if items, err := strconv.ParseInt(note[0], 10, 64); err == nil {
			tx.Quantity = items
			note = note[1:]
		}
	}
	tx.Description = strings.Join(note, " ")

	if err := r.model.AddTransaction(ctx, tx); err != nil {
		return err
	}
	r.println("Recorded " + r.styles.Amount(r.formatter.Format(amount)))
	return nil
}

func (r *REPL) showTransactions(ctx context.Context, arg string) error {
	id, err := r.rowID(arg)
	if err != nil {
		return err
	}
	txs, err := r.ledger.Transactions(ctx, id)
	if err != nil {
		return err
	}
	if len(txs) == 0 {
		r.println(r.styles.Muted.Render("No transactions"))
		return nil
	}

	var b strings.Builder
	for _, tx := range txs {
		line := r.styles.Amount(r.formatter.Format(tx.Amount))
		if tx.Quantity != 0 {
			line += fmt.Sprintf(" (%d %s)", tx.Quantity, plural(int(tx.Quantity), "item", "items"))
		}
		if tx.Description != "" {
			line += "  " + tx.Description
		}
		b.WriteString("  " + line + "\n")
	}
	r.print(b.String())
	return nil
}

func (r *REPL) render(v personlist.View) {
	r.viewMu.Lock()
	r.view = v
	r.viewMu.Unlock()
	r.print(r.Render(v))
}

// Render formats a view as text.
func (r *REPL) Render(v personlist.View) string {
	var b strings.Builder

	total := r.styles.Amount(r.formatter.Format(v.Summary.Total))
	b.WriteString(r.styles.Header.Render("Total") + " " + total)
	if v.Summary.TotalItems != 0 {
		b.WriteString(r.styles.Muted.Render(fmt.Sprintf("  %d %s", v.Summary.TotalItems, plural(int(v.Summary.TotalItems), "item", "items"))))
	}
	b.WriteString("\n")

	if len(v.Summary.Rows) == 0 {
		b.WriteString(r.styles.Muted.Render("  No persons yet") + "\n")
	}

	names := make([]string, len(v.Summary.Rows))
	amounts := make([]string, len(v.Summary.Rows))
	for i, row := range v.Summary.Rows {
		mark := "[ ]"
		name := row.Person.Name
		if v.IsSelected(row.Person.ID) {
			mark = "[x]"
			name = r.styles.Selected.Render(name)
		}
		names[i] = fmt.Sprintf("%s %2d. %s", mark, i+1, name)
		amounts[i] = r.styles.Amount(r.formatter.Format(row.Balance))
	}
	if len(names) > 0 {
		table := lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().PaddingRight(3).Render(strings.Join(names, "\n")),
			lipgloss.NewStyle().Align(lipgloss.Right).Render(strings.Join(amounts, "\n")),
		)
		b.WriteString(table + "\n")
	}

	b.WriteString(r.styles.Muted.Render("Actions: "+actionList(v)) + "\n")
	return b.String()
}

func actionList(v personlist.View) string {
	var actions []string
	if v.Actions.Add {
		actions = append(actions, "add")
	}
	if v.Actions.Edit {
		actions = append(actions, "edit")
	}
	if v.Actions.Delete {
		actions = append(actions, "delete")
	}
	return strings.Join(actions, ", ")
}

func (r *REPL) print(s string) {
	r.outMu.Lock()
	defer r.outMu.Unlock()
	io.WriteString(r.out, s)
}

func (r *REPL) println(s string) {
	r.print(s + "\n")
}

var (
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// parseCents parses a major-unit amount such as "12.50" or "-3" into cents.
func parseCents(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errBadAmount
	}
	cents := d.Shift(2)
	if !cents.IsInteger() || cents.GreaterThan(maxCents) || cents.LessThan(minCents) {
		return 0, errBadAmount
	}
	return cents.IntPart(), nil
}

// message is the user-facing text of err.
func message(err error) string {
	var accessErr *models.AccessError
	switch {
	case errors.As(err, &accessErr):
		return "could not reach the ledger, try again"
	case errors.Is(err, personlist.ErrNotSingleSelection):
		return "select exactly one person to edit"
	default:
		return err.Error()
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
