package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yeremiapane/restaurant-booking/events"
	"github.com/yeremiapane/restaurant-booking/models"
	"github.com/yeremiapane/restaurant-booking/utils"
	"gorm.io/gorm"
)

type ThreadView struct {
	Peer     models.UserRole  `json:"peer"`
	Messages []models.Message `json:"messages"`
	Unread   int              `json:"unread"`
}

type ChatService struct {
	DB     *gorm.DB
	Events events.Publisher
}

func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{DB: db, Events: events.Noop{}}
}

// Contacts lists everyone me can chat with.
func (s *ChatService) Contacts(ctx context.Context, me string) ([]models.UserRole, error) {
	var roles []models.UserRole
	err := s.DB.WithContext(ctx).
		Where("user_id <> ?", me).
		Order("full_name ASC").
		Find(&roles).Error
	return roles, err
}

func (s *ChatService) Send(ctx context.Context, senderID, receiverID, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	switch {
	case senderID == "":
		return nil, ErrNoSender
	case receiverID == "":
		return nil, ErrNoReceiver
	case content == "":
		return nil, ErrEmptyMessage
	}
	if _, err := s.peer(ctx, receiverID); err != nil {
		return nil, err
	}

	msg := models.Message{SenderID: senderID, ReceiverID: receiverID, Content: content}
	if err := s.DB.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}
	if err := s.Events.Publish(ctx, events.EventMessageSent, msg.ID, map[string]string{
		"message_id":  msg.ID,
		"sender_id":   senderID,
		"receiver_id": receiverID,
	}); err != nil {
		utils.ErrorLogger.Printf("Error publishing %s: %v", events.EventMessageSent, err)
	}
	return &msg, nil
}

// Thread returns both directions between me and peer, oldest first.
func (s *ChatService) Thread(ctx context.Context, me, peer string) ([]models.Message, error) {
	var msgs []models.Message
	err := s.DB.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", me, peer, peer, me).
		Order("created_at ASC").
		Find(&msgs).Error
	return msgs, err
}

// MarkThreadRead flags peer's unread messages to me as read. Repeating it changes nothing.
func (s *ChatService) MarkThreadRead(ctx context.Context, me, peer string) (int64, error) {
	res := s.DB.WithContext(ctx).Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", peer, me, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// OpenThread marks the thread read on a best-effort basis and loads it.
// The unread count for peer is reported as zero whether or not the mark succeeded.
func (s *ChatService) OpenThread(ctx context.Context, me, peer string) (*ThreadView, error) {
	role, err := s.peer(ctx, peer)
	if err != nil {
		return nil, err
	}

	if _, err := s.MarkThreadRead(ctx, me, peer); err != nil {
		utils.ErrorLogger.Printf("Error marking thread %s -> %s read: %v", peer, me, err)
	}

	msgs, err := s.Thread(ctx, me, peer)
	if err != nil {
		return nil, err
	}
	for i := range msgs {
		if msgs[i].SenderID == peer && msgs[i].ReceiverID == me {
			msgs[i].IsRead = true
		}
	}
	return &ThreadView{Peer: *role, Messages: msgs, Unread: 0}, nil
}

// UnreadCounts groups my unread received messages by sender.
func (s *ChatService) UnreadCounts(ctx context.Context, me string) (map[string]int, error) {
	var msgs []models.Message
	if err := s.DB.WithContext(ctx).
		Where("receiver_id = ? AND is_read = ?", me, false).
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return CountUnreadBySender(msgs, me), nil
}

func CountUnreadBySender(msgs []models.Message, me string) map[string]int {
	counts := make(map[string]int)
	for _, m := range msgs {
		if m.ReceiverID == me && !m.IsRead {
			counts[m.SenderID]++
		}
	}
	return counts
}

func (s *ChatService) peer(ctx context.Context, userID string) (*models.UserRole, error) {
	var role models.UserRole
	if err := s.DB.WithContext(ctx).First(&role, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}
