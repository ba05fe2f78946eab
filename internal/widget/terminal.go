package widget

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wolfman30/clinic-booking-widget/internal/booking"
)

// Asker reads one answer per call. *prompt.Terminal satisfies it.
type Asker interface {
	Ask(label string) (string, error)
}

const helpText = `Commands:
  book          fill in the appointment form and show free slots
  pick <n>      book slot number n from the board
  slots         show the current slot board
  cancel [id]   cancel an appointment by id
  list          show booked appointments
  help          show this text
  quit          leave`

// Run drives the widget from line input until quit, end of input or ctx is
// done. Each command runs to completion before the next line is read.
func (w *Widget) Run(ctx context.Context, in Asker, out io.Writer) error {
	fmt.Fprintln(out, "Appointments:")
	w.list.Render(out)
	fmt.Fprintln(out, helpText)

	for {
		line, err := ask(ctx, in, "> ")
		if errors.Is(err, io.EOF) || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("widget: read command: %w", err)
		}

		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)
		switch strings.ToLower(cmd) {
		case "":
		case "book", "form":
			w.runForm(ctx, in, out)
		case "pick", "select":
			w.runPick(ctx, arg, out)
		case "slots":
			w.board.Render(out)
		case "cancel":
			w.runCancel(ctx, in, arg)
		case "list":
			w.list.Render(out)
		case "help", "?":
			fmt.Fprintln(out, helpText)
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(out, "unknown command %q, try help\n", cmd)
		}
	}
}

func (w *Widget) runForm(ctx context.Context, in Asker, out io.Writer) {
	name, err := ask(ctx, in, "Patient name: ")
	if err != nil {
		return
	}
	doctor, err := ask(ctx, in, fmt.Sprintf("Doctor (%s): ", strings.Join(w.doctors, ", ")))
	if err != nil {
		return
	}
	date, err := ask(ctx, in, "Date (YYYY-MM-DD): ")
	if err != nil {
		return
	}
	if err := w.Submit(Form{PatientName: name, Doctor: doctor, Date: date}); err != nil {
		w.ui.Notify(err.Error())
		return
	}
	w.board.Render(out)
}

func (w *Widget) runPick(ctx context.Context, arg string, out io.Writer) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		w.ui.Notify("usage: pick <slot number>")
		return
	}
	if _, err := w.SelectSlot(ctx, n); err != nil {
		w.report(err)
		return
	}
	w.list.Render(out)
}

func (w *Widget) runCancel(ctx context.Context, in Asker, id string) {
	if id == "" {
		var err error
		if id, err = ask(ctx, in, "Appointment ID: "); err != nil {
			return
		}
	}
	if _, err := w.Cancel(ctx, id); err != nil {
		w.report(err)
	}
}

// ask reads one answer from in and gives up once ctx is done. An abandoned
// read keeps its goroutine until in returns, so callers stop using in after
// a ctx error.
func ask(ctx context.Context, in Asker, label string) (string, error) {
	type answer struct {
		line string
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		line, err := in.Ask(label)
		ch <- answer{line: line, err: err}
	}()
	select {
	case a := <-ch:
		return a.line, a.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// report surfaces errors the service has not already told the user about.
func (w *Widget) report(err error) {
	switch {
	case errors.Is(err, booking.ErrDeclined), errors.Is(err, booking.ErrNotFound):
	default:
		w.ui.Notify(err.Error())
	}
}
