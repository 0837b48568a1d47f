package quoting

import (
	"fmt"
	"time"

	"sink_quoter/internal/apperr"
	"sink_quoter/internal/models"
)

var transitions = map[models.QuoteStatus][]models.QuoteStatus{
	models.QuoteDraft:  {models.QuoteSent},
	models.QuoteSent:   {models.QuoteViewed, models.QuoteExpired},
	models.QuoteViewed: {models.QuoteAccepted, models.QuoteRejected, models.QuoteExpired},
}

func ValidStatus(s models.QuoteStatus) bool {
	switch s {
	case models.QuoteDraft, models.QuoteSent, models.QuoteViewed,
		models.QuoteAccepted, models.QuoteRejected, models.QuoteExpired:
		return true
	}
	return false
}

func IsTerminal(s models.QuoteStatus) bool {
	return s == models.QuoteAccepted || s == models.QuoteRejected || s == models.QuoteExpired
}

// CanTransition reports whether the adjacency table allows from → to.
func CanTransition(from, to models.QuoteStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition applies the adjacency table and the acceptance expiry guard.
func CheckTransition(q *models.Quote, to models.QuoteStatus, now time.Time) error {
	if !CanTransition(q.Status, to) {
		return &apperr.TransitionError{From: q.Status, To: to}
	}
	if to == models.QuoteAccepted && q.IsExpiredAt(now) {
		return fmt.Errorf("quote %s expired on %s: %w", q.QuoteNumber, q.ValidUntil.Format(time.RFC3339), apperr.ErrExpired)
	}
	return nil
}

// ApplyTransition moves q to the target status and stamps the matching timestamp.
func ApplyTransition(q *models.Quote, to models.QuoteStatus, now time.Time) error {
	if err := CheckTransition(q, to, now); err != nil {
		return err
	}
	q.Status = to
	stamp(q, to, now)
	return nil
}

// CheckSignature guards signature capture: only sent or viewed quotes that
// have not expired can be signed.
func CheckSignature(q *models.Quote, now time.Time) error {
	if q.Status != models.QuoteSent && q.Status != models.QuoteViewed {
		return &apperr.TransitionError{From: q.Status, To: models.QuoteAccepted}
	}
	if q.IsExpiredAt(now) {
		return fmt.Errorf("quote %s expired on %s: %w", q.QuoteNumber, q.ValidUntil.Format(time.RFC3339), apperr.ErrExpired)
	}
	return nil
}

// ApplySignature stores the signature and accepts the quote directly.
func ApplySignature(q *models.Quote, signature string, now time.Time) error {
	if signature == "" {
		return apperr.NewValidation("signature", "required")
	}
	if err := CheckSignature(q, now); err != nil {
		return err
	}
	q.SignatureData = &signature
	q.SignedAt = &now
	q.Status = models.QuoteAccepted
	stamp(q, models.QuoteAccepted, now)
	return nil
}

func stamp(q *models.Quote, s models.QuoteStatus, now time.Time) {
	t := now
	switch s {
	case models.QuoteSent:
		q.SentAt = &t
	case models.QuoteViewed:
		q.ViewedAt = &t
	case models.QuoteAccepted:
		q.AcceptedAt = &t
	case models.QuoteRejected:
		q.RejectedAt = &t
	case models.QuoteExpired:
		q.ExpiredAt = &t
	}
}
