package services

import (
	"context"
	"errors"
	"time"

	"github.com/yeremiapane/restaurant-booking/models"
	"github.com/yeremiapane/restaurant-booking/realtime"
	"github.com/yeremiapane/restaurant-booking/utils"
	"gorm.io/gorm"
)

// ChangeMonitor relays journaled row changes to the live booking list and
// to websocket subscribers, in journal order.
type ChangeMonitor struct {
	DB       *gorm.DB
	Hub      *realtime.Hub
	Bookings *realtime.List[models.Booking]
	StopChan chan struct{}
	Interval time.Duration
	Batch    int
	Location *time.Location
	Now      func() time.Time
}

func NewChangeMonitor(db *gorm.DB, hub *realtime.Hub, bookings *realtime.List[models.Booking]) *ChangeMonitor {
	return &ChangeMonitor{
		DB:       db,
		Hub:      hub,
		Bookings: bookings,
		StopChan: make(chan struct{}),
		Interval: 1 * time.Second,
		Batch:    100,
		Location: time.UTC,
		Now:      time.Now,
	}
}

// Seed loads every booking into the live list before the first poll.
func (cm *ChangeMonitor) Seed(ctx context.Context) error {
	var bookings []models.Booking
	if err := cm.DB.WithContext(ctx).Order("booking_date ASC").Order("booking_time ASC").Find(&bookings).Error; err != nil {
		return err
	}
	valid := bookings[:0]
	for _, b := range bookings {
		if fields := utils.ValidateStruct(b); fields != nil {
			utils.ErrorLogger.Printf("Skipping malformed booking %s: %s", b.ID, utils.FormatValidationErrors(fields))
			continue
		}
		valid = append(valid, b)
	}
	cm.Bookings.Reset(valid)
	return nil
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := cm.CheckChanges(); err != nil {
					utils.ErrorLogger.Printf("Error checking changes: %v", err)
				}
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

// CheckChanges processes one batch of unprocessed journal rows and returns how many it relayed.
func (cm *ChangeMonitor) CheckChanges() (int, error) {
	var changes []models.DBChange
	boardChanged := false

	err := cm.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("processed = ?", false).
			Order("changed_at ASC").
			Order("id ASC").
			Limit(cm.Batch).
			Find(&changes).Error; err != nil {
			return err
		}

		for _, change := range changes {
			switch change.TableName {
			case realtime.TableBookings:
				if cm.processBookingChange(tx, change) {
					boardChanged = true
				}
			case realtime.TableMessages:
				cm.processMessageChange(tx, change)
			}

			if err := tx.Model(&models.DBChange{}).
				Where("id = ?", change.ID).
				Update("processed", true).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if boardChanged {
		cm.broadcastStats()
	}
	return len(changes), nil
}

// broadcastStats pushes the counters of the whole live board.
func (cm *ChangeMonitor) broadcastStats() {
	today := Today(cm.Now(), cm.Location)
	cm.Hub.Broadcast(realtime.Message{
		Event: realtime.EventStatsUpdate,
		Table: realtime.TableBookings,
		Data:  ComputeStats(cm.Bookings.Items(), today),
	})
}

// processBookingChange applies one journal row to the board and reports
// whether anything was broadcast.
func (cm *ChangeMonitor) processBookingChange(tx *gorm.DB, change models.DBChange) bool {
	event := realtime.EventFor(change.TableName, change.ActionType)

	if change.ActionType == models.ActionDelete {
		cm.Bookings.Remove(change.RecordID, change.ChangedAt)
		cm.Hub.Broadcast(realtime.Message{
			Event:  event,
			Table:  realtime.TableBookings,
			Action: change.ActionType,
			Data:   map[string]string{"id": change.RecordID},
			At:     change.ChangedAt,
		})
		return true
	}

	var booking models.Booking
	if err := tx.First(&booking, "id = ?", change.RecordID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.ErrorLogger.Printf("Error fetching booking %s: %v", change.RecordID, err)
		}
		// deleted since; its DELETE row follows
		return false
	}
	if fields := utils.ValidateStruct(booking); fields != nil {
		utils.ErrorLogger.Printf("Dropping malformed booking %s: %s", booking.ID, utils.FormatValidationErrors(fields))
		return false
	}

	if !cm.Bookings.Upsert(booking) {
		return false
	}
	cm.Hub.Broadcast(realtime.Message{
		Event:  event,
		Table:  realtime.TableBookings,
		Action: change.ActionType,
		Data:   booking,
		At:     change.ChangedAt,
	})
	return true
}

func (cm *ChangeMonitor) processMessageChange(tx *gorm.DB, change models.DBChange) {
	if change.ActionType != models.ActionInsert {
		return
	}

	var msg models.Message
	if err := tx.First(&msg, "id = ?", change.RecordID).Error; err != nil {
		utils.ErrorLogger.Printf("Error fetching message %s: %v", change.RecordID, err)
		return
	}
	if fields := utils.ValidateStruct(msg); fields != nil {
		utils.ErrorLogger.Printf("Dropping malformed message %s: %s", msg.ID, utils.FormatValidationErrors(fields))
		return
	}

	cm.Hub.SendToUsers(realtime.Message{
		Event:  realtime.EventMessageInsert,
		Table:  realtime.TableMessages,
		Action: change.ActionType,
		Data:   msg,
		At:     change.ChangedAt,
	}, msg.SenderID, msg.ReceiverID)
}
