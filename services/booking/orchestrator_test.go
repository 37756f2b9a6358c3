package booking

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"reservas/models"
	"reservas/services/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	wireStart = "2024-06-01 09:00:00"
	wireEnd   = "2024-06-01 10:00:00"
)

func testWindow(loc *time.Location) models.ReservationWindow {
	return models.ReservationWindow{
		ResourceID: 42,
		Start:      time.Date(2024, 6, 1, 9, 0, 0, 0, loc),
		End:        time.Date(2024, 6, 1, 10, 0, 0, 0, loc),
	}
}

type recorder struct {
	states []State
}

func (r *recorder) observe(s State) { r.states = append(r.states, s) }

func newTestOrchestrator() (*Orchestrator, *mockChecker, *mockSubmitter, *recorder) {
	checker := &mockChecker{}
	submitter := &mockSubmitter{}
	rec := &recorder{}
	return NewOrchestrator(checker, submitter, WithStateObserver(rec.observe)), checker, submitter, rec
}

func TestBook_RejectsInvalidWindowWithoutCalls(t *testing.T) {
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local)
	cases := map[string]models.ReservationWindow{
		"end equals start": {ResourceID: 42, Start: start, End: start},
		"end before start": {ResourceID: 42, Start: start, End: start.Add(-time.Minute)},
		"missing resource": {ResourceID: 0, Start: start, End: start.Add(time.Hour)},
		"five digit year":  {ResourceID: 42, Start: start, End: time.Date(10000, 1, 1, 0, 0, 0, 0, time.Local)},
		"negative year":    {ResourceID: 42, Start: time.Date(-1, 12, 31, 23, 0, 0, 0, time.Local), End: start},
	}

	for name, window := range cases {
		t.Run(name, func(t *testing.T) {
			o, checker, submitter, rec := newTestOrchestrator()

			created, err := o.Book(context.Background(), window, "")

			assert.Nil(t, created)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			checker.AssertNotCalled(t, "CheckConflicts", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			submitter.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			assert.Equal(t, StateIdle, o.State())
			assert.Empty(t, rec.states)
			assert.NotEmpty(t, UserMessage(err))
		})
	}
}

func TestBook_VerificationFailureNeverCreates(t *testing.T) {
	o, checker, submitter, rec := newTestOrchestrator()
	cause := errors.New("dial tcp: connection refused")
	checker.On("CheckConflicts", mock.Anything, 42, wireStart, wireEnd).Return(nil, cause).Once()

	created, err := o.Book(context.Background(), testWindow(time.Local), "")

	assert.Nil(t, created)
	var verificationErr *VerificationError
	require.ErrorAs(t, err, &verificationErr)
	assert.ErrorIs(t, err, cause)
	checker.AssertNumberOfCalls(t, "CheckConflicts", 1)
	submitter.AssertNumberOfCalls(t, "Create", 0)
	assert.Equal(t, StateVerifyFailed, o.State())
	assert.Equal(t, []State{StateVerifying, StateVerifyFailed}, rec.states)
	assert.Contains(t, UserMessage(err), "connection refused")
}

func TestBook_ServerErrorOnCheckIsVerificationFailure(t *testing.T) {
	o, checker, submitter, _ := newTestOrchestrator()
	apiErr := &api.Error{Method: http.MethodPost, Path: "/reservas/verificar-conflictos", StatusCode: http.StatusInternalServerError, Message: "Server error"}
	checker.On("CheckConflicts", mock.Anything, 42, wireStart, wireEnd).Return(nil, apiErr)

	_, err := o.Book(context.Background(), testWindow(time.Local), "")

	var verificationErr *VerificationError
	require.ErrorAs(t, err, &verificationErr)
	submitter.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Equal(t, "Failed to verify availability: Server error", UserMessage(err))
}

func TestBook_NilReportIsVerificationFailure(t *testing.T) {
	o, checker, submitter, _ := newTestOrchestrator()
	checker.On("CheckConflicts", mock.Anything, 42, wireStart, wireEnd).Return(nil, nil)

	_, err := o.Book(context.Background(), testWindow(time.Local), "")

	var verificationErr *VerificationError
	require.ErrorAs(t, err, &verificationErr)
	submitter.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Equal(t, StateVerifyFailed, o.State())
}

func TestBook_ConflictStopsBeforeCreate(t *testing.T) {
	o, checker, submitter, rec := newTestOrchestrator()
	first := models.ConflictSummary{Requester: "Ana", Start: "2024-06-01 09:30:00", End: "2024-06-01 10:30:00"}
	report := &models.ConflictReport{
		HasConflict: true,
		Conflicts: []models.ConflictSummary{
			first,
			{Requester: "Luis", Start: "2024-06-01 08:00:00", End: "2024-06-01 09:15:00"},
		},
	}
	checker.On("CheckConflicts", mock.Anything, 42, wireStart, wireEnd).Return(report, nil)

	created, err := o.Book(context.Background(), testWindow(time.Local), "lab session")

	assert.Nil(t, created)
	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	require.NotNil(t, conflictErr.Conflict)
	assert.Equal(t, first, *conflictErr.Conflict)
	submitter.AssertNumberOfCalls(t, "Create", 0)
	assert.Equal(t, StateConflictFound, o.State())
	assert.Equal(t, []State{StateVerifying, StateConflictFound}, rec.states)
	assert.Equal(t, "Conflict with reservation by Ana (2024-06-01 09:30:00 - 2024-06-01 10:30:00)", UserMessage(err))
}

func TestBook_ConflictWithoutDetail(t *testing.T) {
	o, checker, submitter, _ := newTestOrchestrator()
	checker.On("CheckConflicts", mock.Anything, 42, wireStart, wireEnd).
		Return(&models.ConflictReport{HasConflict: true}, nil)

	_, err := o.Book(context.Background(), testWindow(time.Local), "")

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Nil(t, conflictErr.Conflict)
	assert.Equal(t, msgUnavailable, UserMessage(err))
	submitter.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBook_CleanCheckCreatesWithSameWindow(t *testing.T) {
	o, checker, submitter, rec := newTestOrchestrator()
	checker.On("CheckConflicts", mock.Anything, 42, wireStart, wireEnd).
		Return(&models.ConflictReport{HasConflict: false}, nil).Once()

	want := models.BookingRequest{ResourceID: 42, Start: wireStart, End: wireEnd, Comments: "thesis defense"}
	reservation := &models.Reservation{ID: 7, ResourceID: 42, Start: wireStart, End: wireEnd, Status: models.ReservationActive}
	submitter.On("Create", mock.Anything, want).Return(reservation, nil).Once()

	created, err := o.Book(context.Background(), testWindow(time.Local), "thesis defense")

	require.NoError(t, err)
	assert.Equal(t, reservation, created)
	checker.AssertExpectations(t)
	submitter.AssertExpectations(t)
	submitter.AssertNumberOfCalls(t, "Create", 1)
	assert.Equal(t, StateCreated, o.State())
	assert.Equal(t, []State{StateVerifying, StateCreating, StateCreated}, rec.states)
}

func TestBook_UsesWallClockOfWindowZone(t *testing.T) {
	o, checker, submitter, _ := newTestOrchestrator()
	zone := time.FixedZone("UTC-5", -5*60*60)
	checker.On("CheckConflicts", mock.Anything, 42, wireStart, wireEnd).
		Return(&models.ConflictReport{}, nil)
	submitter.On("Create", mock.Anything, models.BookingRequest{ResourceID: 42, Start: wireStart, End: wireEnd}).
		Return(&models.Reservation{ID: 1}, nil)

	_, err := o.Book(context.Background(), testWindow(zone), "")

	require.NoError(t, err)
	checker.AssertExpectations(t)
	submitter.AssertExpectations(t)
}

func TestBook_CreationFailureCarriesServerMessage(t *testing.T) {
	o, checker, submitter, rec := newTestOrchestrator()
	checker.On("CheckConflicts", mock.Anything, 42, wireStart, wireEnd).Return(&models.ConflictReport{}, nil)
	apiErr := &api.Error{
		Method:     http.MethodPost,
		Path:       "/reservas",
		StatusCode: http.StatusConflict,
		Message:    "The resource was booked by another user",
		Details:    "overlaps reservation 12",
	}
	submitter.On("Create", mock.Anything, mock.Anything).Return(nil, apiErr).Once()

	created, err := o.Book(context.Background(), testWindow(time.Local), "")

	assert.Nil(t, created)
	var creationErr *CreationError
	require.ErrorAs(t, err, &creationErr)
	assert.True(t, api.IsStatus(err, http.StatusConflict))
	assert.Equal(t, "The resource was booked by another user\noverlaps reservation 12", UserMessage(err))
	submitter.AssertNumberOfCalls(t, "Create", 1)
	assert.Equal(t, StateCreateFailed, o.State())
	assert.Equal(t, []State{StateVerifying, StateCreating, StateCreateFailed}, rec.states)
}

func TestBook_CreationFailureWithoutServerMessage(t *testing.T) {
	o, checker, submitter, _ := newTestOrchestrator()
	checker.On("CheckConflicts", mock.Anything, 42, wireStart, wireEnd).Return(&models.ConflictReport{}, nil)
	submitter.On("Create", mock.Anything, mock.Anything).Return(nil, context.DeadlineExceeded)

	_, err := o.Book(context.Background(), testWindow(time.Local), "")

	var creationErr *CreationError
	require.ErrorAs(t, err, &creationErr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, msgCreateFallback, UserMessage(err))
}

func TestBook_ResubmitAfterConflict(t *testing.T) {
	o, checker, submitter, rec := newTestOrchestrator()
	busy := testWindow(time.Local)
	free := models.ReservationWindow{ResourceID: 42, Start: busy.Start.Add(2 * time.Hour), End: busy.End.Add(2 * time.Hour)}

	checker.On("CheckConflicts", mock.Anything, 42, wireStart, wireEnd).
		Return(&models.ConflictReport{HasConflict: true}, nil)
	checker.On("CheckConflicts", mock.Anything, 42, "2024-06-01 11:00:00", "2024-06-01 12:00:00").
		Return(&models.ConflictReport{}, nil)
	submitter.On("Create", mock.Anything, models.BookingRequest{ResourceID: 42, Start: "2024-06-01 11:00:00", End: "2024-06-01 12:00:00"}).
		Return(&models.Reservation{ID: 3}, nil)

	_, err := o.Book(context.Background(), busy, "")
	require.Error(t, err)

	created, err := o.Book(context.Background(), free, "")
	require.NoError(t, err)
	assert.Equal(t, 3, created.ID)
	assert.Equal(t, []State{
		StateVerifying, StateConflictFound,
		StateIdle, StateVerifying, StateCreating, StateCreated,
	}, rec.states)
}

func TestBook_RejectsConcurrentSubmit(t *testing.T) {
	o, checker, submitter, _ := newTestOrchestrator()
	entered := make(chan struct{})
	release := make(chan struct{})
	checker.before = func() {
		close(entered)
		<-release
	}
	checker.On("CheckConflicts", mock.Anything, 42, wireStart, wireEnd).Return(&models.ConflictReport{}, nil).Once()
	submitter.On("Create", mock.Anything, mock.Anything).Return(&models.Reservation{ID: 9}, nil).Once()

	done := make(chan error, 1)
	go func() {
		_, err := o.Book(context.Background(), testWindow(time.Local), "")
		done <- err
	}()

	<-entered
	_, err := o.Book(context.Background(), testWindow(time.Local), "")
	assert.ErrorIs(t, err, ErrSubmitInFlight)
	assert.Equal(t, StateVerifying, o.State())

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateCreated, o.State())
	checker.AssertNumberOfCalls(t, "CheckConflicts", 1)
	submitter.AssertNumberOfCalls(t, "Create", 1)
}

func TestBook_ClosedDuringFlightDoesNotMutateState(t *testing.T) {
	o, checker, submitter, rec := newTestOrchestrator()
	checker.On("CheckConflicts", mock.Anything, 42, wireStart, wireEnd).Return(&models.ConflictReport{}, nil)
	submitter.before = o.Close
	submitter.On("Create", mock.Anything, mock.Anything).Return(&models.Reservation{ID: 11}, nil)

	created, err := o.Book(context.Background(), testWindow(time.Local), "")

	require.NoError(t, err)
	assert.Equal(t, 11, created.ID)
	assert.Equal(t, StateCreating, o.State())
	assert.Equal(t, []State{StateVerifying, StateCreating}, rec.states)

	_, err = o.Book(context.Background(), testWindow(time.Local), "")
	assert.ErrorIs(t, err, ErrOrchestratorClosed)
	checker.AssertNumberOfCalls(t, "CheckConflicts", 1)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "conflict_found", StateConflictFound.String())
	assert.Equal(t, "unknown", State(99).String())
	assert.True(t, StateCreating.Busy())
	assert.False(t, StateIdle.Busy())
	assert.True(t, StateCreateFailed.Terminal())
	assert.False(t, StateVerifying.Terminal())
}
