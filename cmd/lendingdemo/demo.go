package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/AntonStoeckl/lending-tracker-go/core"
	"github.com/AntonStoeckl/lending-tracker-go/features/command/addbook"
	"github.com/AntonStoeckl/lending-tracker-go/features/command/addmember"
	"github.com/AntonStoeckl/lending-tracker-go/features/command/borrowbook"
	"github.com/AntonStoeckl/lending-tracker-go/features/command/returnbook"
	"github.com/AntonStoeckl/lending-tracker-go/features/query/bookavailability"
	"github.com/AntonStoeckl/lending-tracker-go/features/query/lendingstatus"
	"github.com/AntonStoeckl/lending-tracker-go/shell"
	"github.com/AntonStoeckl/lending-tracker-go/shell/observable"
	"github.com/AntonStoeckl/lending-tracker-go/shell/snapshot"
)

// demo drives the lending use cases through their observable wrappers.
// The status report is served from projection snapshots when the event store keeps them.
type demo struct {
	libraryName string
	out         io.Writer
	now         func() time.Time

	addBook      *observable.CommandWrapper[addbook.Command]
	addMember    *observable.CommandWrapper[addmember.Command]
	borrowBook   *observable.CommandWrapper[borrowbook.Command]
	returnBook   *observable.CommandWrapper[returnbook.Command]
	status       *observable.QueryWrapper[lendingstatus.Query, lendingstatus.LendingStatus]
	availability *observable.QueryWrapper[bookavailability.Query, bookavailability.BookAvailability]
}

func newDemo(
	libraryName string,
	eventStore shell.EventStore,
	out io.Writer,
	logger shell.ContextualLogger,
	metrics shell.MetricsCollector,
	tracing shell.TracingCollector,
) (*demo, error) {

	d := &demo{libraryName: libraryName, out: out, now: time.Now}
	var err error

	if d.addBook, err = wrapCommand[addbook.Command](addbook.NewCommandHandler(eventStore), logger, metrics, tracing); err != nil {
		return nil, err
	}

	if d.addMember, err = wrapCommand[addmember.Command](addmember.NewCommandHandler(eventStore), logger, metrics, tracing); err != nil {
		return nil, err
	}

	var borrowOptions []borrowbook.Option
	if metrics != nil {
		borrowOptions = append(borrowOptions, borrowbook.WithRetryOptions(
			shell.WithRetryMetrics(metrics, borrowbook.Command{}.CommandType()),
		))
	}

	if d.borrowBook, err = wrapCommand[borrowbook.Command](borrowbook.NewCommandHandler(eventStore, borrowOptions...), logger, metrics, tracing); err != nil {
		return nil, err
	}

	if d.returnBook, err = wrapCommand[returnbook.Command](returnbook.NewCommandHandler(eventStore), logger, metrics, tracing); err != nil {
		return nil, err
	}

	var statusHandler shell.CoreQueryHandler[lendingstatus.Query, lendingstatus.LendingStatus] = lendingstatus.NewQueryHandler(eventStore)
	if snapshotStore, ok := eventStore.(snapshot.QueriesEventsAndHandlesSnapshots); ok {
		if statusHandler, err = lendingstatus.NewSnapshotQueryHandler(snapshotStore); err != nil {
			return nil, err
		}
	}

	if d.status, err = wrapQuery[lendingstatus.Query, lendingstatus.LendingStatus](statusHandler, logger, metrics, tracing); err != nil {
		return nil, err
	}

	if d.availability, err = wrapQuery[bookavailability.Query, bookavailability.BookAvailability](
		bookavailability.NewQueryHandler(eventStore), logger, metrics, tracing); err != nil {
		return nil, err
	}

	return d, nil
}

func wrapCommand[C shell.Command](
	handler shell.CoreCommandHandler[C],
	logger shell.ContextualLogger,
	metrics shell.MetricsCollector,
	tracing shell.TracingCollector,
) (*observable.CommandWrapper[C], error) {

	return observable.NewCommandWrapper[C](
		handler,
		observable.WithCommandMetrics[C](metrics),
		observable.WithCommandTracing[C](tracing),
		observable.WithCommandContextualLogging[C](logger),
	)
}

func wrapQuery[Q shell.Query, R shell.QueryResult](
	handler shell.CoreQueryHandler[Q, R],
	logger shell.ContextualLogger,
	metrics shell.MetricsCollector,
	tracing shell.TracingCollector,
) (*observable.QueryWrapper[Q, R], error) {

	return observable.NewQueryWrapper[Q, R](
		handler,
		observable.WithQueryMetrics[Q, R](metrics),
		observable.WithQueryTracing[Q, R](tracing),
		observable.WithQueryContextualLogging[Q, R](logger),
	)
}

// run plays the scenario. Refused requests are printed, any other error ends the run.
func (d *demo) run(ctx context.Context) error {
	antoine := core.BuildPerson("Antoine", "Dupont")
	julia := core.BuildPerson("Julia", "Roberts")
	rugbyBook := core.BuildBook("Jouer au rugby pour les nuls", core.BuildPerson("Louis", "BB"))
	novelBook := core.BuildBook("Vingt mille lieues sous les mers", core.BuildPerson("Jules", "Verne"))

	for _, line := range []fmt.Stringer{antoine, julia, rugbyBook, novelBook} {
		d.println(line)
	}

	steps := []func(ctx context.Context) error{
		d.printStatus,
		d.add(rugbyBook, novelBook),
		d.register(antoine, julia),
		d.printStatus,
		d.printAvailability(rugbyBook),
		d.borrow(rugbyBook, antoine),
		d.printStatus,
		d.borrow(rugbyBook, julia),
		d.borrow(core.BuildBook("Roméo et Juliette", core.BuildPerson("William", "Shakespeare")), julia),
		d.borrow(novelBook, core.BuildPerson("Simone", "Veil")),
		d.giveBack(novelBook),
		d.giveBack(rugbyBook),
		d.borrow(novelBook, julia),
		d.printStatus,
		d.borrow(rugbyBook, julia),
		d.printStatus,
	}

	for _, step := range steps {
		if err := step(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (d *demo) add(books ...core.Book) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		for _, book := range books {
			if _, err := d.addBook.Handle(ctx, addbook.BuildCommand(book, d.now())); err != nil {
				return d.refusedOrFailed(err)
			}
		}

		return nil
	}
}

func (d *demo) register(members ...core.Person) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		for _, member := range members {
			if _, err := d.addMember.Handle(ctx, addmember.BuildCommand(member, d.now())); err != nil {
				return d.refusedOrFailed(err)
			}
		}

		return nil
	}
}

func (d *demo) borrow(book core.Book, member core.Person) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := d.borrowBook.Handle(ctx, borrowbook.BuildCommand(book, member, d.now()))

		return d.refusedOrFailed(err)
	}
}

func (d *demo) giveBack(book core.Book) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := d.returnBook.Handle(ctx, returnbook.BuildCommand(book, d.now()))

		return d.refusedOrFailed(err)
	}
}

func (d *demo) printStatus(ctx context.Context) error {
	result, err := d.status.Handle(ctx, lendingstatus.BuildQuery(d.libraryName))
	if err != nil {
		return err
	}

	d.println(result)

	return nil
}

func (d *demo) printAvailability(book core.Book) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		result, err := d.availability.Handle(ctx, bookavailability.BuildQuery(book))
		if err != nil {
			return d.refusedOrFailed(err)
		}

		_, _ = fmt.Fprintf(d.out, "Is %s available? %t\n", book, result.Available)

		return nil
	}
}

// refusedOrFailed prints business rule violations and passes everything else on.
func (d *demo) refusedOrFailed(err error) error {
	if err == nil {
		return nil
	}

	if shell.IsBusinessRuleViolation(err) {
		d.println(err)
		return nil
	}

	return err
}

func (d *demo) println(v any) {
	_, _ = fmt.Fprintln(d.out, v)
}
