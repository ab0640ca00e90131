package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/lithammer/shortuuid/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/Domenick1991/airreserve/api"
	"github.com/Domenick1991/airreserve/config"
	"github.com/Domenick1991/airreserve/internal/bootstrap"
	"github.com/Domenick1991/airreserve/internal/domain"
	"github.com/Domenick1991/airreserve/internal/logging"
	"github.com/Domenick1991/airreserve/internal/migrations"
)

func main() {
	app := &cli.App{
		Name:  "airreserve",
		Usage: "Book, amend and cancel flight reservations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to the YAML config",
				Value:   "config.yaml",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			migrateCommand(),
			openDateCommand(),
			flightsCommand(),
			searchCommand(),
			availabilityCommand(),
			bookCommand(),
			cancelCommand(),
			addBaggageCommand(),
			baggageLeftCommand(),
			updatePassengerCommand(),
			seatsCommand(),
			reservationsCommand(),
			passengerBookingCommand(),
			paymentsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if err := logging.Init(cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}

// withApp builds the application for one command and closes it afterwards.
// Every invocation gets its own correlation id. Guidance errors exit with
// status 2 and a plain message.
func withApp(action func(c *cli.Context, app *bootstrap.App) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		correlationID := shortuuid.New()
		log := logrus.WithField("correlation_id", correlationID)
		c.Context = logging.ToContext(logging.ContextWithCorrelationID(c.Context, correlationID), log)

		app, err := bootstrap.New(c.Context, cfg, log)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := action(c, app); err != nil {
			if api.IsGuidance(err) {
				return cli.Exit(err.Error(), 2)
			}
			return err
		}
		return nil
	}
}

func dateFlag(c *cli.Context, name string) (time.Time, error) {
	return api.ParseDate(c.String(name))
}

func money(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

func table(c *cli.Context) *tabwriter.Writer {
	return tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply the database schema",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "down", Usage: "roll back every migration"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if c.Bool("down") {
				return migrations.Down(cfg.Database.URL())
			}
			if err := migrations.Up(cfg.Database.URL()); err != nil {
				return err
			}
			version, dirty, err := migrations.Version(cfg.Database.URL())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "schema at version %d (dirty=%t)\n", version, dirty)
			return nil
		},
	}
}

func openDateCommand() *cli.Command {
	return &cli.Command{
		Name:  "open-date",
		Usage: "schedule a flight on a date with a number of seats",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "flight", Required: true},
			&cli.StringFlag{Name: "date", Required: true, Usage: "YYYY-MM-DD"},
			&cli.IntFlag{Name: "seats", Required: true},
		},
		Action: withApp(func(c *cli.Context, app *bootstrap.App) error {
			date, err := dateFlag(c, "date")
			if err != nil {
				return err
			}
			seats := c.Int("seats")
			if seats < 0 {
				return domain.Validation("seats must not be negative")
			}
			if _, err := app.API.Flight(c.Context, c.Int64("flight")); err != nil {
				return err
			}
			if err := app.OpenInventory(c.Context, c.Int64("flight"), date, seats); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "flight %d on %s: %d seats\n", c.Int64("flight"), date.Format(time.DateOnly), seats)
			return nil
		}),
	}
}

func flightsCommand() *cli.Command {
	return &cli.Command{
		Name:  "flights",
		Usage: "list all flights",
		Action: withApp(func(c *cli.Context, app *bootstrap.App) error {
			flights, err := app.API.Flights(c.Context)
			if err != nil {
				return err
			}
			return printFlights(c, flights, false)
		}),
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "find flights with free seats",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Required: true, Usage: "origin airport code"},
			&cli.StringFlag{Name: "to", Required: true, Usage: "destination airport code"},
			&cli.StringFlag{Name: "date", Required: true, Usage: "YYYY-MM-DD"},
		},
		Action: withApp(func(c *cli.Context, app *bootstrap.App) error {
			date, err := dateFlag(c, "date")
			if err != nil {
				return err
			}
			flights, err := app.API.SearchFlights(c.Context, c.String("from"), c.String("to"), date)
			if err != nil {
				return err
			}
			if len(flights) == 0 {
				fmt.Fprintln(c.App.Writer, "no flights available")
				return nil
			}
			return printFlights(c, flights, true)
		}),
	}
}

func availabilityCommand() *cli.Command {
	return &cli.Command{
		Name:  "availability",
		Usage: "show remaining seats on every flight of a route, sold out included",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Required: true, Usage: "origin airport code"},
			&cli.StringFlag{Name: "to", Required: true, Usage: "destination airport code"},
			&cli.StringFlag{Name: "date", Required: true, Usage: "YYYY-MM-DD"},
		},
		Action: withApp(func(c *cli.Context, app *bootstrap.App) error {
			date, err := dateFlag(c, "date")
			if err != nil {
				return err
			}
			flights, err := app.API.RouteAvailability(c.Context, c.String("from"), c.String("to"), date)
			if err != nil {
				return err
			}
			if len(flights) == 0 {
				fmt.Fprintln(c.App.Writer, "no flights scheduled on this route")
				return nil
			}
			return printFlights(c, flights, true)
		}),
	}
}

func printFlights(c *cli.Context, flights []domain.Flight, withSeats bool) error {
	w := table(c)
	header := "ID\tAIRLINE\tFROM\tTO\tDEPARTS\tARRIVES\tFARE"
	if withSeats {
		header += "\tSEATS"
	}
	fmt.Fprintln(w, header)
	for _, f := range flights {
		line := fmt.Sprintf("%d\t%s\t%s\t%s\t%s\t%s\t%s", f.ID, f.Airline, f.Origin, f.Destination, f.DepartureTime, f.ArrivalTime, money(f.PriceCents))
		if withSeats {
			line += fmt.Sprintf("\t%d", f.AvailableSeats)
		}
		fmt.Fprintln(w, line)
	}
	return w.Flush()
}

func bookCommand() *cli.Command {
	return &cli.Command{
		Name:  "book",
		Usage: "book one or more passengers on a flight",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "flight", Required: true},
			&cli.StringFlag{Name: "date", Required: true, Usage: "YYYY-MM-DD"},
			&cli.StringSliceFlag{Name: "passenger", Required: true, Usage: `"name|email|phone", repeat per passenger`},
			&cli.StringFlag{Name: "payment", Required: true, Usage: "card, upi, netbanking or cash"},
		},
		Action: withApp(func(c *cli.Context, app *bootstrap.App) error {
			date, err := dateFlag(c, "date")
			if err != nil {
				return err
			}
			req := api.BookTicketRequest{
				FlightID:      c.Int64("flight"),
				JourneyDate:   date,
				PaymentMethod: c.String("payment"),
			}
			for _, raw := range c.StringSlice("passenger") {
				req.Passengers = append(req.Passengers, parsePassenger(raw))
			}

			confirmation, err := app.API.BookTicket(c.Context, req)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "reference code %s, total %s paid by %s\n",
				confirmation.ReferenceCode, money(confirmation.AmountCents), confirmation.PaymentMethod)
			w := table(c)
			fmt.Fprintln(w, "PASSENGER ID\tNAME\tSEAT")
			for _, s := range confirmation.Seats {
				fmt.Fprintf(w, "%d\t%s\t%s\n", s.PassengerID, s.Name, s.SeatNo)
			}
			return w.Flush()
		}),
	}
}

func parsePassenger(raw string) api.PassengerDetails {
	parts := strings.SplitN(raw, "|", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	return api.PassengerDetails{Name: parts[0], Email: parts[1], Phone: parts[2]}
}

func cancelCommand() *cli.Command {
	return &cli.Command{
		Name:      "cancel",
		Usage:     "cancel a booking and release its seats",
		ArgsUsage: "<reference_code>",
		Action: withApp(func(c *cli.Context, app *bootstrap.App) error {
			cancellation, err := app.API.CancelTicket(c.Context, c.Args().First())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "booking %s cancelled, %d seats released\n",
				cancellation.ReferenceCode, cancellation.SeatsReleased())
			return nil
		}),
	}
}

func addBaggageCommand() *cli.Command {
	return &cli.Command{
		Name:  "add-baggage",
		Usage: "add a baggage item within the passenger's allowance",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "passenger", Required: true},
			&cli.StringFlag{Name: "code", Required: true, Usage: "reference code"},
			&cli.Float64Flag{Name: "weight", Required: true, Usage: "kg"},
			&cli.StringFlag{Name: "type", Value: "checked", Usage: "cabin or checked"},
			&cli.BoolFlag{Name: "privileged", Usage: "student or discount fare"},
		},
		Action: withApp(func(c *cli.Context, app *bootstrap.App) error {
			id, err := app.API.AddBaggage(c.Context, api.AddBaggageRequest{
				PassengerID:   c.Int64("passenger"),
				ReferenceCode: c.String("code"),
				Weight:        c.Float64("weight"),
				Type:          c.String("type"),
				Privileged:    c.Bool("privileged"),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "baggage %d added\n", id)
			return nil
		}),
	}
}

func baggageLeftCommand() *cli.Command {
	return &cli.Command{
		Name:  "baggage-left",
		Usage: "show the remaining baggage allowance",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "passenger", Required: true},
			&cli.StringFlag{Name: "code", Required: true, Usage: "reference code"},
			&cli.StringFlag{Name: "type", Value: "checked", Usage: "cabin or checked"},
			&cli.BoolFlag{Name: "privileged", Usage: "student or discount fare"},
		},
		Action: withApp(func(c *cli.Context, app *bootstrap.App) error {
			remaining, err := app.API.RemainingBaggage(c.Context, c.Int64("passenger"), c.String("code"), c.String("type"), c.Bool("privileged"))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "%.1f kg remaining\n", remaining)
			return nil
		}),
	}
}

func updatePassengerCommand() *cli.Command {
	return &cli.Command{
		Name:  "update-passenger",
		Usage: "change a passenger's email or phone",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "passenger", Required: true},
			&cli.StringFlag{Name: "field", Required: true, Usage: "email or phone"},
			&cli.StringFlag{Name: "value", Required: true},
		},
		Action: withApp(func(c *cli.Context, app *bootstrap.App) error {
			result, err := app.API.UpdatePassengerDetail(c.Context, c.Int64("passenger"), c.String("field"), c.String("value"))
			if err != nil {
				return err
			}
			if result == domain.UpdateNoChange {
				fmt.Fprintf(c.App.Writer, "%s is already set to that value\n", c.String("field"))
				return nil
			}
			fmt.Fprintf(c.App.Writer, "passenger %d %s\n", c.Int64("passenger"), result)
			return nil
		}),
	}
}

func seatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "seats",
		Usage: "show remaining seats and passengers of a flight on a date",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "flight", Required: true},
			&cli.StringFlag{Name: "date", Required: true, Usage: "YYYY-MM-DD"},
		},
		Action: withApp(func(c *cli.Context, app *bootstrap.App) error {
			date, err := dateFlag(c, "date")
			if err != nil {
				return err
			}
			seats, err := app.API.AvailableSeats(c.Context, c.Int64("flight"), date)
			if err != nil {
				return err
			}
			passengers, err := app.API.PassengersForFlight(c.Context, c.Int64("flight"), date)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "%d seats available, %d booked\n", seats, len(passengers))
			w := table(c)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE")
			for _, p := range passengers {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, p.Name, p.Email, p.Phone)
			}
			return w.Flush()
		}),
	}
}

func reservationsCommand() *cli.Command {
	return &cli.Command{
		Name:      "reservations",
		Usage:     "show the reservations and baggage of a booking, or every reservation",
		ArgsUsage: "[reference_code]",
		Action: withApp(func(c *cli.Context, app *bootstrap.App) error {
			code := c.Args().First()
			if code == "" {
				all, err := app.API.Reservations(c.Context)
				if err != nil {
					return err
				}
				w := table(c)
				fmt.Fprintln(w, "CODE\tPASSENGER ID\tFLIGHT\tSEAT\tTRAVEL")
				for _, r := range all {
					fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n", r.ReferenceCode, r.PassengerID, r.FlightID, r.SeatNo, r.JourneyDate.Format(time.DateOnly))
				}
				return w.Flush()
			}
			reservations, err := app.API.ReservationsByReference(c.Context, code)
			if err != nil {
				return err
			}
			if len(reservations) == 0 {
				return fmt.Errorf("booking %s: %w", code, domain.ErrNotFound)
			}
			items, err := app.API.BaggageByReference(c.Context, code)
			if err != nil {
				return err
			}

			w := table(c)
			fmt.Fprintln(w, "PASSENGER ID\tFLIGHT\tSEAT\tBOOKED\tTRAVEL")
			for _, r := range reservations {
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n", r.PassengerID, r.FlightID, r.SeatNo,
					r.BookingDate.Format(time.DateOnly), r.JourneyDate.Format(time.DateOnly))
			}
			if len(items) > 0 {
				fmt.Fprintln(w, "\nBAGGAGE ID\tPASSENGER ID\tTYPE\tWEIGHT")
				for _, b := range items {
					fmt.Fprintf(w, "%d\t%d\t%s\t%.2f\n", b.ID, b.PassengerID, b.Type, b.Weight)
				}
			}
			return w.Flush()
		}),
	}
}

func passengerBookingCommand() *cli.Command {
	return &cli.Command{
		Name:  "passenger-booking",
		Usage: "show the reference code and seat held by a passenger",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "passenger", Required: true},
		},
		Action: withApp(func(c *cli.Context, app *bootstrap.App) error {
			r, err := app.API.ReservationForPassenger(c.Context, c.Int64("passenger"))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "reference %s, seat %s on flight %d, %s\n",
				r.ReferenceCode, r.SeatNo, r.FlightID, r.JourneyDate.Format(time.DateOnly))
			return nil
		}),
	}
}

func paymentsCommand() *cli.Command {
	return &cli.Command{
		Name:  "payments",
		Usage: "list recorded payments",
		Action: withApp(func(c *cli.Context, app *bootstrap.App) error {
			payments, err := app.API.Payments(c.Context)
			if err != nil {
				return err
			}
			w := table(c)
			fmt.Fprintln(w, "ID\tREFERENCE\tAMOUNT\tMETHOD\tTRANSACTION\tAT")
			for _, p := range payments {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.ReferenceCode, money(p.AmountCents), p.Method,
					p.TransactionRef, p.CreatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		}),
	}
}
