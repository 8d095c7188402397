package services

import (
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	pbmodels "github.com/pocketbase/pocketbase/models"

	"club-ticketing/models"
)

// Publisher pushes realtime messages to named channels. Implemented by
// utils.Notifier; services keep the narrow interface so tests can stub it.
type Publisher interface {
	Publish(channel string, message map[string]any)
}

type NotificationService struct {
	app       core.App
	publisher Publisher
}

func NewNotificationService(app core.App, publisher Publisher) *NotificationService {
	return &NotificationService{app: app, publisher: publisher}
}

func (s *NotificationService) GetByID(id string) (*models.Notification, error) {
	record, err := s.app.Dao().FindRecordById("notification", id)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return models.NotificationFromRecord(record), nil
}

func (s *NotificationService) GetUserNotifications(userID string) ([]*models.Notification, error) {
	records, err := s.app.Dao().FindRecordsByFilter(
		"notification",
		"user_id = {:userId}",
		"-created",
		0,
		0,
		dbx.Params{"userId": userID},
	)
	if err != nil {
		return nil, err
	}

	notifications := make([]*models.Notification, 0, len(records))
	for _, r := range records {
		notifications = append(notifications, models.NotificationFromRecord(r))
	}
	return notifications, nil
}

// Send stores the notification row and pushes it to the recipient's channel.
func (s *NotificationService) Send(userID, title, body string) (*models.Notification, error) {
	collection, err := s.app.Dao().FindCollectionByNameOrId("notification")
	if err != nil {
		return nil, err
	}

	record := pbmodels.NewRecord(collection)
	record.Set("user_id", userID)
	record.Set("title", title)
	record.Set("body", body)
	record.Set("is_read", false)

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(fmt.Sprintf("user-%s", userID), map[string]any{
			"type":            "notification",
			"notification_id": record.Id,
			"title":           title,
		})
	}

	return models.NotificationFromRecord(record), nil
}

func (s *NotificationService) MarkAsRead(id string) (*models.Notification, error) {
	record, err := s.app.Dao().FindRecordById("notification", id)
	if err != nil {
		return nil, normalizeErr(err)
	}

	record.Set("is_read", true)

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return nil, err
	}
	return models.NotificationFromRecord(record), nil
}
