package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

// NotificationService pushes membership events to an outbound webhook.
// Delivery is fire-and-forget: failures are logged and never surfaced
// to the workflows, so no coordinator blocks on notification I/O.
type NotificationService struct {
	webhookURL string
	enabled    bool
	client     *http.Client
}

// NewNotificationService creates a new notification service
func NewNotificationService() *NotificationService {
	url := os.Getenv("NOTIFY_WEBHOOK_URL")
	return &NotificationService{
		webhookURL: url,
		enabled:    url != "",
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// IsEnabled checks if notification is enabled
func (s *NotificationService) IsEnabled() bool {
	return s.enabled
}

// notifyEvent represents the outbound webhook payload
type notifyEvent struct {
	Event      string `json:"event"`
	Message    string `json:"message"`
	Recipients []uint `json:"recipients,omitempty"`
	SentAt     string `json:"sent_at"`
}

// dispatch posts the event on a separate goroutine
func (s *NotificationService) dispatch(event, message string, recipients []uint) {
	if !s.enabled {
		return
	}

	go func() {
		payload := notifyEvent{
			Event:      event,
			Message:    message,
			Recipients: recipients,
			SentAt:     time.Now().Format(time.RFC3339),
		}
		body, err := json.Marshal(payload)
		if err != nil {
			log.Printf("❌ Notify marshal error (%s): %v", event, err)
			return
		}

		resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(body))
		if err != nil {
			log.Printf("❌ Notify delivery failed (%s): %v", event, err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			log.Printf("❌ Notify rejected (%s): HTTP %d", event, resp.StatusCode)
		}
	}()
}

// NotifyDisablementInitiated informs a club's members their club is
// being shut down
func (s *NotificationService) NotifyDisablementInitiated(clubName, reason string, deadline time.Time, memberIDs []uint) {
	message := fmt.Sprintf("El club %s será deshabilitado (%s). Fecha límite de reubicación: %s",
		clubName, reason, deadline.Format("02/01/2006"))
	s.dispatch("disablement.initiated", message, memberIDs)
}

// NotifyMemberReallocated informs a member of their new club
func (s *NotificationService) NotifyMemberReallocated(userID uint, destClubName string) {
	message := fmt.Sprintf("Has sido reubicado al club %s", destClubName)
	s.dispatch("disablement.member_reallocated", message, []uint{userID})
}

// NotifyMemberDegraded informs a member they lost their affiliation
func (s *NotificationService) NotifyMemberDegraded(userID uint) {
	message := "No se encontró un club disponible; tu membresía ha sido liberada y tus robots quedan pendientes de aprobación"
	s.dispatch("disablement.member_degraded", message, []uint{userID})
}

// NotifyDisablementCompleted informs the initiating admin
func (s *NotificationService) NotifyDisablementCompleted(adminID uint, clubName string, reallocated, degraded int) {
	message := fmt.Sprintf("Deshabilitación de %s completada: %d reubicados, %d degradados",
		clubName, reallocated, degraded)
	s.dispatch("disablement.completed", message, []uint{adminID})
}

// NotifyTransferRequested informs the origin club owner
func (s *NotificationService) NotifyTransferRequested(ownerID uint, username, destClubName string) {
	message := fmt.Sprintf("%s solicita transferirse al club %s", username, destClubName)
	s.dispatch("transfer.requested", message, []uint{ownerID})
}

// NotifyTransferExitApproved informs the destination club owner
func (s *NotificationService) NotifyTransferExitApproved(ownerID uint, username string) {
	message := fmt.Sprintf("Salida aprobada: la solicitud de %s espera tu aprobación de ingreso", username)
	s.dispatch("transfer.exit_approved", message, []uint{ownerID})
}

// NotifyTransferResolved informs the requesting member of the outcome
func (s *NotificationService) NotifyTransferResolved(userID uint, status, detail string) {
	message := fmt.Sprintf("Tu solicitud de transferencia fue %s. %s", status, detail)
	s.dispatch("transfer.resolved", message, []uint{userID})
}
