package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Mehedi-Hassan-Rauf/project-management/logging"
)

// NotificationsClient delivers task assignment notifications to an external
// notifications endpoint. Delivery is best effort: failures are logged and
// absorbed, never surfaced to the request that triggered them. A nil client
// or an empty base URL disables delivery entirely.
type NotificationsClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewNotificationsClient(baseURL string) *NotificationsClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "notifications-cb",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	return &NotificationsClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
		breaker: breaker,
	}
}

type notificationPayload struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// NotifyTaskAssigned tells the notifications endpoint that a task was
// assigned to a user.
func (c *NotificationsClient) NotifyTaskAssigned(ctx context.Context, userID primitive.ObjectID, taskTitle string) {
	if c == nil || c.baseURL == "" {
		return
	}

	payload := notificationPayload{
		UserID:  userID.Hex(),
		Message: fmt.Sprintf("You have been assigned to task: %s", taskTitle),
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/notifications", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusBadRequest {
			return nil, fmt.Errorf("notifications endpoint returned status %d", resp.StatusCode)
		}
		return nil, nil
	})
	if err != nil {
		logging.Logger.Warnf("Event ID: NOTIFICATION_DELIVERY_FAILED, Description: Failed to deliver task assignment notification for user %s: %v", userID.Hex(), err)
	}
}
