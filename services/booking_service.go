package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-booking/cache"
	"github.com/yeremiapane/restaurant-booking/events"
	"github.com/yeremiapane/restaurant-booking/models"
	"github.com/yeremiapane/restaurant-booking/notify"
	"github.com/yeremiapane/restaurant-booking/utils"
	"gorm.io/gorm"
)

const (
	SourcePublic = "public"
	SourceAdmin  = "admin"
)

type BookingInput struct {
	CustomerName string  `json:"customer_name" binding:"required" validate:"required"`
	PhoneNumber  string  `json:"phone_number" binding:"required" validate:"required"`
	BookingDate  string  `json:"booking_date" binding:"required" validate:"required,datetime=2006-01-02"`
	BookingTime  string  `json:"booking_time" binding:"required" validate:"required,datetime=15:04"`
	PartySize    int     `json:"party_size" binding:"required" validate:"min=1,max=20"`
	Notes        *string `json:"notes"`
}

type Dashboard struct {
	Filter   Filter           `json:"filter"`
	Today    string           `json:"today"`
	Bookings []models.Booking `json:"bookings"`
	Stats    Stats            `json:"stats"`
}

type BookingService struct {
	DB                *gorm.DB
	Notifier          notify.Notifier
	Events            events.Publisher
	Cache             cache.Store
	UpcomingInclusive bool
	DedupWindow       time.Duration
	CacheTTL          time.Duration
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{
		DB:          db,
		Notifier:    notify.Noop{},
		Events:      events.Noop{},
		Cache:       cache.NewMemory(),
		DedupWindow: 10 * time.Minute,
		CacheTTL:    time.Minute,
	}
}

// Create stores a new pending booking. A public resubmission of the same
// phone, date and time inside DedupWindow returns the first booking with
// duplicate=true.
func (s *BookingService) Create(ctx context.Context, in BookingInput, source string) (*models.Booking, bool, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	if err := validate(in); err != nil {
		return nil, false, err
	}

	idemKey := fmt.Sprintf(cache.KeyIdemBooking, in.PhoneNumber, in.BookingDate, in.BookingTime)
	claimed := false
	if source == SourcePublic && s.DedupWindow > 0 {
		existing, ok, err := s.reserve(ctx, idemKey)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return existing, true, nil
		}
		claimed = ok
	}

	booking := models.Booking{
		CustomerName: in.CustomerName,
		PhoneNumber:  in.PhoneNumber,
		BookingDate:  in.BookingDate,
		BookingTime:  in.BookingTime,
		PartySize:    in.PartySize,
		Status:       models.BookingPending,
		Notes:        in.Notes,
	}
	if err := s.DB.WithContext(ctx).Create(&booking).Error; err != nil {
		if claimed {
			if derr := s.Cache.Delete(ctx, idemKey); derr != nil {
				utils.ErrorLogger.Printf("Error releasing booking idempotency key: %v", derr)
			}
		}
		return nil, false, err
	}

	log := utils.InfoLogger.WithFields(logrus.Fields{"booking_id": booking.ID, "source": source})
	log.Printf("Booking created for %s on %s %s (%d guests)", booking.CustomerName, booking.BookingDate, booking.BookingTime, booking.PartySize)

	if claimed {
		if err := s.Cache.Set(ctx, idemKey, booking.ID, s.DedupWindow); err != nil {
			utils.ErrorLogger.Printf("Error storing booking idempotency key: %v", err)
		}
	}
	s.invalidate(ctx)
	s.publish(ctx, events.EventBookingCreated, booking.ID, booking)

	if source == SourcePublic {
		s.Notifier.Notify(notify.Notification{
			Heading: "New Reservation 🔔",
			Content: fmt.Sprintf("New Booking! 📅 %s at %s for %d people.", booking.BookingDate, booking.BookingTime, booking.PartySize),
		})
	}
	return &booking, false, nil
}

const (
	idemPending  = "pending"
	idemAttempts = 40
	idemPoll     = 25 * time.Millisecond
)

// reserve claims the idempotency key before the insert. ok reports a claim;
// a non-nil booking means an earlier submission already owns the key. While
// the owner is still inserting the key holds idemPending and we poll for the id.
// A failing cache leaves the submission unguarded.
func (s *BookingService) reserve(ctx context.Context, key string) (*models.Booking, bool, error) {
	for attempt := 0; attempt < idemAttempts; attempt++ {
		ok, err := s.Cache.SetNX(ctx, key, idemPending, s.DedupWindow)
		if err != nil {
			utils.ErrorLogger.Printf("Error reserving booking idempotency key: %v", err)
			return nil, false, nil
		}
		if ok {
			return nil, true, nil
		}

		id, found, err := s.Cache.Get(ctx, key)
		if err != nil {
			utils.ErrorLogger.Printf("Error reading booking idempotency key: %v", err)
			return nil, false, nil
		}
		if found && id != idemPending {
			existing, err := s.Get(ctx, id)
			if err == nil {
				return existing, false, nil
			}
			if !errors.Is(err, ErrNotFound) {
				return nil, false, err
			}
			// the first booking was deleted since
			if err := s.Cache.Delete(ctx, key); err != nil {
				utils.ErrorLogger.Printf("Error releasing booking idempotency key: %v", err)
			}
			continue
		}

		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case <-time.After(idemPoll):
		}
	}
	return nil, false, ErrSubmissionInFlight
}

func (s *BookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.WithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// List returns bookings matching the filter ordered by date then time.
func (s *BookingService) List(ctx context.Context, f Filter, today string) ([]models.Booking, error) {
	q := s.DB.WithContext(ctx).Model(&models.Booking{})
	switch f {
	case FilterToday:
		q = q.Where("booking_date = ?", today)
	case FilterUpcoming:
		if s.UpcomingInclusive {
			q = q.Where("booking_date >= ?", today)
		} else {
			q = q.Where("booking_date > ?", today)
		}
	}

	var bookings []models.Booking
	if err := q.Order("booking_date ASC").Order("booking_time ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// ExpectedToday sums guests of confirmed bookings for today, independent of the list filter.
func (s *BookingService) ExpectedToday(ctx context.Context, today string) (int, error) {
	var total int64
	err := s.DB.WithContext(ctx).Model(&models.Booking{}).
		Where("booking_date = ? AND status = ?", today, models.BookingConfirmed).
		Select("COALESCE(SUM(party_size), 0)").
		Scan(&total).Error
	return int(total), err
}

// Dashboard is the owner view: filtered list plus counters, cached until the next booking write.
func (s *BookingService) Dashboard(ctx context.Context, f Filter, today string) (*Dashboard, error) {
	key := fmt.Sprintf(cache.KeyDashboard, f, today, s.UpcomingInclusive)
	if raw, ok, err := s.Cache.Get(ctx, key); err == nil && ok {
		var cached Dashboard
		if json.Unmarshal([]byte(raw), &cached) == nil {
			return &cached, nil
		}
	}

	bookings, err := s.List(ctx, f, today)
	if err != nil {
		return nil, err
	}
	stats := ComputeStats(bookings, today)
	if f != FilterToday {
		expected, err := s.ExpectedToday(ctx, today)
		if err != nil {
			return nil, err
		}
		stats.ExpectedToday = expected
	}

	d := &Dashboard{Filter: f, Today: today, Bookings: bookings, Stats: stats}
	if raw, err := json.Marshal(d); err == nil {
		if err := s.Cache.Set(ctx, key, string(raw), s.CacheTTL); err != nil {
			utils.ErrorLogger.Printf("Error caching dashboard: %v", err)
		}
	}
	return d, nil
}

// SetStatus writes any valid status. Offered edges are checked by ApplyAction only.
func (s *BookingService) SetStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	booking, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := booking.Status

	if err := s.DB.WithContext(ctx).Model(booking).Update("status", status).Error; err != nil {
		utils.ErrorLogger.Printf("Error updating booking %s status: %v", id, err)
		// discard what we tried and report the stored state
		if fresh, ferr := s.Get(ctx, id); ferr == nil {
			utils.ErrorLogger.Printf("Booking %s remains %s", id, fresh.Status)
		}
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{"booking_id": id}).
		Printf("Booking status %s -> %s", previous, status)
	s.invalidate(ctx)
	s.publish(ctx, events.EventBookingStatusChanged, id, map[string]interface{}{
		"booking_id": id,
		"from":       previous,
		"to":         status,
	})
	return s.Get(ctx, id)
}

func (s *BookingService) ApplyAction(ctx context.Context, id string, action Action) (*models.Booking, error) {
	booking, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	target, err := NextStatus(booking.Status, action)
	if err != nil {
		return nil, err
	}
	return s.SetStatus(ctx, id, target)
}

func (s *BookingService) Delete(ctx context.Context, id string) error {
	booking, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.DB.WithContext(ctx).Delete(booking).Error; err != nil {
		return err
	}
	s.invalidate(ctx)
	s.publish(ctx, events.EventBookingDeleted, id, map[string]string{"booking_id": id})
	return nil
}

func (s *BookingService) invalidate(ctx context.Context) {
	if err := s.Cache.DeletePrefix(ctx, cache.PrefixDashboard); err != nil {
		utils.ErrorLogger.Printf("Error invalidating dashboard cache: %v", err)
	}
}

func (s *BookingService) publish(ctx context.Context, eventType, key string, payload interface{}) {
	if err := s.Events.Publish(ctx, eventType, key, payload); err != nil {
		utils.ErrorLogger.Printf("Error publishing %s: %v", eventType, err)
	}
}
