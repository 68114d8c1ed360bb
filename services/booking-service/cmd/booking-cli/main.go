package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/md-rashed-zaman/apptbook/libs/config"
	"github.com/md-rashed-zaman/apptbook/libs/kafkax"
	"github.com/md-rashed-zaman/apptbook/libs/runtime"
	"github.com/md-rashed-zaman/apptbook/services/booking-service/internal/client"
	"github.com/md-rashed-zaman/apptbook/services/booking-service/internal/events"
)

func main() {
	_ = config.LoadDotEnv()

	var (
		baseURL = flag.String("base-url", config.String("BASE_URL", "http://localhost:3001"), "booking service base url")
		date    = flag.String("date", time.Now().Format("2006-01-02"), "date to book (YYYY-MM-DD)")
		slot    = flag.String("time", "", "slot to book (HH:MM); empty only lists slots")
		name    = flag.String("name", config.String("BOOKING_NAME", ""), "contact name")
		email   = flag.String("email", config.String("BOOKING_EMAIL", ""), "contact email")
		watch   = flag.Bool("watch", false, "tail booked events from KAFKA_BROKERS until interrupted")
	)
	flag.Parse()

	if *watch {
		watchBooked()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	session := client.NewSession(client.New(*baseURL))
	view := session.ChooseDate(ctx, *date)
	if view.Phase == client.PhaseError {
		fatal(view.Error)
	}
	printSlots(view)

	if strings.TrimSpace(*slot) == "" {
		return
	}
	if _, err := session.ChooseTime(*slot); err != nil {
		fatal(fmt.Sprintf("%s: %v", *slot, err))
	}

	view = session.Book(ctx, *name, *email)
	if view.Confirmation == nil {
		fatal(view.Error)
	}
	appt := view.Confirmation.Appointment
	fmt.Printf("%s\n  id=%s name=%s date=%s time=%s\n",
		view.Confirmation.Message, appt.ID, appt.Name, appt.Date, client.FormatTime(appt.Time))

	if view.Phase == client.PhaseError {
		fatal(view.Error)
	}
	printSlots(view)
}

func watchBooked() {
	brokers := kafkax.SplitBrokers(config.String("KAFKA_BROKERS", ""))
	if len(brokers) == 0 {
		fatal("KAFKA_BROKERS is required for -watch")
	}
	logger := runtime.NewLogger("booking-cli", config.String("LOG_LEVEL", "warn"))

	ctx, stop := runtime.SignalContext()
	defer stop()

	sub := events.NewSubscriber(logger, events.SubscriberConfig{
		Brokers: brokers,
		GroupID: config.String("KAFKA_GROUP_ID", "booking-cli"),
	})
	sub.Run(ctx, func(_ context.Context, evt events.Booked) error {
		fmt.Printf("booked %s %s  %s <%s>  id=%s\n",
			evt.Date, client.FormatTime(evt.Time), evt.Name, evt.Email, evt.AppointmentID)
		return nil
	})
}

func printSlots(view client.View) {
	fmt.Printf("slots for %s:\n", view.Date)
	for _, s := range view.Slots {
		state := "available"
		if !s.Available {
			state = "booked"
		}
		fmt.Printf("  %-8s %s\n", client.FormatTime(s.Time), state)
	}
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
