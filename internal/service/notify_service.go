package service

import (
	"fmt"

	"rentfleet/internal/config"
	"rentfleet/internal/db"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// NotifyService sends booking status updates over email and SMS. Channels
// with missing credentials are skipped; failures are logged and swallowed so
// a notification can never fail a booking transition.
type NotifyService struct {
	cfg   config.Config
	users UserStore
	log   zerolog.Logger
}

func NewNotifyService(cfg config.Config, users UserStore, log zerolog.Logger) *NotifyService {
	return &NotifyService{cfg: cfg, users: users, log: log}
}

func (s *NotifyService) BookingStatusChanged(renterID int64, b *db.Booking) {
	user, err := s.users.GetByID(renterID)
	if err != nil {
		s.log.Warn().Err(err).Int64("renter_id", renterID).Msg("notify: renter lookup failed")
		return
	}

	subject := fmt.Sprintf("Your booking #%d is %s", b.ID, b.Status)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour booking #%d (%s) is now %s.\n\n"+
			"Pick-up: %s\nReturn: %s\nTotal: %d %s\n\n"+
			"Thank you for riding with us.",
		user.FullName, b.ID, b.VehicleTitle, b.Status,
		b.StartAt.Format("02 Jan 2006 15:04 MST"),
		b.EndAt.Format("02 Jan 2006 15:04 MST"),
		b.TotalAmount, b.Currency,
	)

	if user.Email != "" {
		if err := s.sendEmail(user.Email, user.FullName, subject, body); err != nil {
			s.log.Warn().Err(err).Int64("booking_id", b.ID).Msg("notify: email failed")
		}
	}
	if user.Phone != "" {
		sms := fmt.Sprintf("Booking #%d (%s) is now %s.", b.ID, b.VehicleTitle, b.Status)
		if err := s.sendSMS(user.Phone, sms); err != nil {
			s.log.Warn().Err(err).Int64("booking_id", b.ID).Msg("notify: sms failed")
		}
	}
}

func (s *NotifyService) sendEmail(toEmail, toName, subject, plainText string) error {
	if s.cfg.SendgridAPIKey == "" || s.cfg.SendgridFromEmail == "" {
		return nil
	}

	from := mail.NewEmail(s.cfg.SendgridFromName, s.cfg.SendgridFromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, "")

	client := sendgrid.NewSendClient(s.cfg.SendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *NotifyService) sendSMS(toNumber, body string) error {
	if s.cfg.TwilioAccountSID == "" || s.cfg.TwilioAuthToken == "" || s.cfg.TwilioFromNumber == "" {
		return nil
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   s.cfg.TwilioAccountSID,
		Password:   s.cfg.TwilioAuthToken,
		AccountSid: s.cfg.TwilioAccountSID,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(s.cfg.TwilioFromNumber)
	params.SetBody(body)

	if _, err := client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}
	return nil
}
