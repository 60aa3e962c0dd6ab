package notification

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// mockSender is a mock implementation of the Sender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

// A helper function to create a mock database connection.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestWorkerPool_Dispatch(t *testing.T) {
	db, _ := newMockDB(t)
	wp := NewWorkerPool(1, db, &webpush.Options{})

	msg := Message{CaregiverID: "cg-1", Title: "Shift assigned", Body: "details"}
	wp.Dispatch(msg)

	select {
	case job := <-wp.jobs:
		assert.Equal(t, msg, job)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_DispatchNeverBlocks(t *testing.T) {
	db, _ := newMockDB(t)
	wp := NewWorkerPool(1, db, &webpush.Options{})

	// No worker is running; overfill the queue well past its buffer. The
	// extra messages must be dropped, not block the caller.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			wp.Dispatch(Message{CaregiverID: "cg-1", Title: "t", Body: "b"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	gormDB, mock := newMockDB(t)
	wp := NewWorkerPool(1, gormDB, &webpush.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	t.Run("fans out to each subscription", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(2)

		var mu sync.Mutex
		endpoints := make(map[string]string)

		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				mu.Lock()
				endpoints[sub.Endpoint] = string(payload)
				mu.Unlock()
				wg.Done()
				return &http.Response{
					StatusCode: http.StatusCreated,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		mock.ExpectQuery(`SELECT .* FROM "push_subscriptions" WHERE caregiver_id = \$1`).
			WithArgs("cg-1").
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "caregiver_id", "p256dh", "auth"}).
				AddRow("https://example.com/phone", "cg-1", "key1", "auth1").
				AddRow("https://example.com/tablet", "cg-1", "key2", "auth2"))

		wp.Dispatch(Message{CaregiverID: "cg-1", Title: "New shift assigned", Body: "Rosa Martinez on 2026-09-07, 09:00-17:00"})
		wg.Wait()

		mu.Lock()
		defer mu.Unlock()
		assert.JSONEq(t, `{"title":"New shift assigned","body":"Rosa Martinez on 2026-09-07, 09:00-17:00"}`, endpoints["https://example.com/phone"])
		assert.Contains(t, endpoints, "https://example.com/tablet")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deletes expired subscription", func(t *testing.T) {
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusGone,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		mock.ExpectQuery(`SELECT .* FROM "push_subscriptions" WHERE caregiver_id = \$1`).
			WithArgs("cg-2").
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "caregiver_id", "p256dh", "auth"}).
				AddRow("https://example.com/expired", "cg-2", "key", "auth"))

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "push_subscriptions" WHERE "push_subscriptions"."endpoint" = \$1`).
			WithArgs("https://example.com/expired").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		wp.Dispatch(Message{CaregiverID: "cg-2", Title: "Swap accepted", Body: "b"})

		// A short sleep to allow the worker to process the job
		time.Sleep(100 * time.Millisecond)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no subscriptions sends nothing", func(t *testing.T) {
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				t.Error("send should not be called without subscriptions")
				return nil, nil
			},
		}

		mock.ExpectQuery(`SELECT .* FROM "push_subscriptions" WHERE caregiver_id = \$1`).
			WithArgs("cg-3").
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "caregiver_id", "p256dh", "auth"}))

		wp.Dispatch(Message{CaregiverID: "cg-3", Title: "t", Body: "b"})
		time.Sleep(100 * time.Millisecond)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
