package notification

import (
	"fmt"
	"strings"
	"time"
)

// Notifier is the scheduling core's view of notification dispatch. All calls
// are fire-and-forget; implementations must never surface delivery failures
// to the caller.
type Notifier interface {
	ShiftAssigned(caregiverID, elderName, date, startTime, endTime string)
	RequestApproved(caregiverID, summary string)
	RequestRejected(caregiverID, reason string)
	SwapRequested(targetCaregiverID, requesterName, date, startTime, endTime string)
	SwapAccepted(requesterID, acceptorName string)
}

// PushNotifier delivers notifications through the webpush worker pool.
type PushNotifier struct {
	pool *WorkerPool
}

// NewPushNotifier creates a Notifier backed by the worker pool.
func NewPushNotifier(pool *WorkerPool) *PushNotifier {
	return &PushNotifier{pool: pool}
}

func (n *PushNotifier) ShiftAssigned(caregiverID, elderName, date, startTime, endTime string) {
	n.pool.Dispatch(Message{
		CaregiverID: caregiverID,
		Title:       "New shift assigned",
		Body:        fmt.Sprintf("You have been scheduled with %s on %s, %s-%s.", elderName, date, startTime, endTime),
	})
}

func (n *PushNotifier) RequestApproved(caregiverID, summary string) {
	n.pool.Dispatch(Message{
		CaregiverID: caregiverID,
		Title:       "Shift request approved",
		Body:        summary,
	})
}

func (n *PushNotifier) RequestRejected(caregiverID, reason string) {
	body := "Your shift request was not approved."
	if reason != "" {
		body = fmt.Sprintf("Your shift request was not approved: %s", reason)
	}
	n.pool.Dispatch(Message{
		CaregiverID: caregiverID,
		Title:       "Shift request rejected",
		Body:        body,
	})
}

func (n *PushNotifier) SwapRequested(targetCaregiverID, requesterName, date, startTime, endTime string) {
	n.pool.Dispatch(Message{
		CaregiverID: targetCaregiverID,
		Title:       "Shift swap requested",
		Body:        fmt.Sprintf("%s asked you to take their shift on %s, %s-%s.", requesterName, date, startTime, endTime),
	})
}

func (n *PushNotifier) SwapAccepted(requesterID, acceptorName string) {
	n.pool.Dispatch(Message{
		CaregiverID: requesterID,
		Title:       "Shift swap accepted",
		Body:        fmt.Sprintf("%s accepted your shift swap.", acceptorName),
	})
}

// ApprovalSummary formats the notification body for an approved request,
// either a single date or a recurring-days summary.
func ApprovalSummary(specificDate string, recurringDays []int) string {
	if specificDate != "" {
		return fmt.Sprintf("Your shift request for %s was approved.", specificDate)
	}
	names := make([]string, 0, len(recurringDays))
	for _, d := range recurringDays {
		names = append(names, time.Weekday(d).String())
	}
	return fmt.Sprintf("Your recurring shift request (%s) was approved.", strings.Join(names, ", "))
}

// noopNotifier discards all notifications.
type noopNotifier struct{}

// Noop returns a Notifier that does nothing. Useful in tests.
func Noop() Notifier { return noopNotifier{} }

func (noopNotifier) ShiftAssigned(string, string, string, string, string) {}
func (noopNotifier) RequestApproved(string, string)                       {}
func (noopNotifier) RequestRejected(string, string)                       {}
func (noopNotifier) SwapRequested(string, string, string, string, string) {}
func (noopNotifier) SwapAccepted(string, string)                          {}
