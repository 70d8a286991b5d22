package casefile_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/code19m/errx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/rise-and-shine/caseflow/cqrs/command"
	"github.com/rise-and-shine/caseflow/cqrs/dispatch"
	"github.com/rise-and-shine/caseflow/internal/casefile"
	"github.com/rise-and-shine/caseflow/internal/dbtest"
	"github.com/rise-and-shine/caseflow/meta"
	"github.com/rise-and-shine/caseflow/observability/logger"
	"github.com/rise-and-shine/caseflow/outbox"
	"github.com/rise-and-shine/caseflow/outbox/bunstore"
	"github.com/rise-and-shine/caseflow/pagination"
	"github.com/rise-and-shine/caseflow/val"
)

type fixture struct {
	db         *bun.DB
	store      *bunstore.Store
	dispatcher *dispatch.Dispatcher
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := t.Context()

	db := dbtest.NewSQLite(t)
	store := bunstore.New(db)
	require.NoError(t, store.CreateSchema(ctx))
	require.NoError(t, casefile.CreateSchema(ctx, db))

	d := dispatch.New(logger.FromZap(zap.NewNop()), dispatch.WithMeta("caseflow", "test"))
	require.NoError(t, casefile.RegisterHandlers(d, db, store))

	return fixture{db: db, store: store, dispatcher: d}
}

func (f fixture) loadCase(t *testing.T, id string) *casefile.Case {
	t.Helper()
	c := new(casefile.Case)
	require.NoError(t, f.db.NewSelect().Model(c).Where("id = ?", id).Scan(t.Context()))
	return c
}

func (f fixture) events(t *testing.T) []casefile.Event {
	t.Helper()
	var msgs []*outbox.Message
	require.NoError(t, f.db.NewSelect().Model(&msgs).Order("seq ASC").Scan(t.Context()))

	events := make([]casefile.Event, 0, len(msgs))
	for _, m := range msgs {
		var evt casefile.Event
		require.NoError(t, json.Unmarshal(m.Payload, &evt))
		assert.Equal(t, casefile.TopicCaseEvents, m.Topic)
		assert.Equal(t, evt.CaseID, m.Key)
		assert.Equal(t, evt.Type, m.Metadata["event_type"])
		events = append(events, evt)
	}
	return events
}

func TestOpenCase(t *testing.T) {
	f := setup(t)
	ctx := context.WithValue(t.Context(), meta.ActorID, "agent-7")

	out, err := dispatch.Send[casefile.OpenCase, casefile.CaseOpened](ctx, f.dispatcher,
		casefile.OpenCase{Title: "Printer on fire"})

	require.NoError(t, err)
	require.NotEmpty(t, out.CaseID)

	c := f.loadCase(t, out.CaseID)
	assert.Equal(t, "Printer on fire", c.Title)
	assert.Equal(t, casefile.StatusOpen, c.Status)
	assert.Equal(t, "agent-7", c.OpenedBy)
	assert.False(t, c.CreatedAt.IsZero())

	events := f.events(t)
	require.Len(t, events, 1)
	assert.Equal(t, casefile.EventCaseOpened, events[0].Type)
	assert.Equal(t, out.CaseID, events[0].CaseID)
	assert.Equal(t, "Printer on fire", events[0].Title)
}

func TestOpenCaseValidation(t *testing.T) {
	f := setup(t)

	_, err := f.dispatcher.Dispatch(t.Context(), casefile.OpenCase{})

	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, val.CodeValidationFailed))
	assert.Empty(t, f.events(t))
}

func TestCloseCase(t *testing.T) {
	f := setup(t)
	ctx := t.Context()

	opened, err := dispatch.Send[casefile.OpenCase, casefile.CaseOpened](ctx, f.dispatcher,
		casefile.OpenCase{Title: "VPN down"})
	require.NoError(t, err)

	_, err = dispatch.Send[casefile.CloseCase, command.EmptyResult](ctx, f.dispatcher,
		casefile.CloseCase{CaseID: opened.CaseID})
	require.NoError(t, err)

	assert.Equal(t, casefile.StatusClosed, f.loadCase(t, opened.CaseID).Status)

	events := f.events(t)
	require.Len(t, events, 2)
	assert.Equal(t, casefile.EventCaseOpened, events[0].Type)
	assert.Equal(t, casefile.EventCaseClosed, events[1].Type)
}

func TestCloseCaseFailures(t *testing.T) {
	f := setup(t)
	ctx := t.Context()

	opened, err := dispatch.Send[casefile.OpenCase, casefile.CaseOpened](ctx, f.dispatcher,
		casefile.OpenCase{Title: "Lost badge"})
	require.NoError(t, err)
	require.NoError(t, dispatch.DispatchAll(ctx, f.dispatcher, casefile.CloseCase{CaseID: opened.CaseID}))

	tests := []struct {
		name     string
		cmd      casefile.CloseCase
		wantCode string
	}{
		{name: "already closed", cmd: casefile.CloseCase{CaseID: opened.CaseID}, wantCode: casefile.CodeCaseAlreadyClosed},
		{name: "unknown case", cmd: casefile.CloseCase{CaseID: uuid.NewString()}, wantCode: casefile.CodeCaseNotFound},
		{name: "malformed id", cmd: casefile.CloseCase{CaseID: "42"}, wantCode: val.CodeValidationFailed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.dispatcher.Dispatch(ctx, tc.cmd)

			require.Error(t, err)
			assert.True(t, errx.IsCodeIn(err, tc.wantCode), "got %v", err)
		})
	}

	// Failed commands leave no outbox messages behind.
	assert.Len(t, f.events(t), 2)
}

type failingWriter struct{}

func (failingWriter) Add(context.Context, bun.IDB, *outbox.Message) error {
	return errors.New("outbox unavailable")
}

func TestOpenCaseRollsBackWithOutbox(t *testing.T) {
	f := setup(t)

	handler := casefile.NewOpenCaseHandler(f.db, failingWriter{})
	_, err := handler.Execute(t.Context(), casefile.OpenCase{Title: "Atomic"})

	require.Error(t, err)

	n, err := f.db.NewSelect().Model((*casefile.Case)(nil)).Count(t.Context())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCaseEventsReachPublisherInOrder(t *testing.T) {
	f := setup(t)
	ctx := t.Context()
	log := logger.FromZap(zap.NewNop())

	opened, err := dispatch.Send[casefile.OpenCase, casefile.CaseOpened](ctx, f.dispatcher,
		casefile.OpenCase{Title: "Flaky wifi"})
	require.NoError(t, err)
	require.NoError(t, dispatch.DispatchAll(ctx, f.dispatcher, casefile.CloseCase{CaseID: opened.CaseID}))

	pub, pubSub := outbox.NewChannelPublisher(log)
	t.Cleanup(func() { _ = pub.Close() })

	received, err := pubSub.Subscribe(ctx, casefile.TopicCaseEvents)
	require.NoError(t, err)

	poller := outbox.NewPollingPublisher(f.store, pub, log)
	drained := make(chan error, 1)
	go func() { drained <- poller.PollAndPublishAll(context.Background()) }()

	var types []string
	for range 2 {
		select {
		case m := <-received:
			assert.Equal(t, opened.CaseID, m.Metadata.Get(outbox.MetadataPartitionKey))
			types = append(types, m.Metadata.Get("event_type"))
			m.Ack()
		case <-time.After(5 * time.Second):
			t.Fatal("event not delivered")
		}
	}
	require.NoError(t, <-drained)
	assert.Equal(t, []string{casefile.EventCaseOpened, casefile.EventCaseClosed}, types)

	pending, err := f.store.CountPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestGetCase(t *testing.T) {
	f := setup(t)
	ctx := t.Context()

	opened, err := dispatch.Send[casefile.OpenCase, casefile.CaseOpened](ctx, f.dispatcher,
		casefile.OpenCase{Title: "Broken chair"})
	require.NoError(t, err)

	got, err := dispatch.Send[casefile.GetCase, casefile.Case](ctx, f.dispatcher,
		casefile.GetCase{CaseID: opened.CaseID})
	require.NoError(t, err)
	assert.Equal(t, "Broken chair", got.Title)
	assert.Equal(t, casefile.StatusOpen, got.Status)

	_, err = f.dispatcher.Dispatch(ctx, casefile.GetCase{CaseID: uuid.NewString()})
	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, casefile.CodeCaseNotFound))
}

func TestListCases(t *testing.T) {
	f := setup(t)
	ctx := t.Context()

	ids := map[string]string{}
	for _, title := range []string{"delta", "alpha", "charlie", "bravo"} {
		opened, err := dispatch.Send[casefile.OpenCase, casefile.CaseOpened](ctx, f.dispatcher,
			casefile.OpenCase{Title: title})
		require.NoError(t, err)
		ids[title] = opened.CaseID
	}
	require.NoError(t, dispatch.DispatchAll(ctx, f.dispatcher, casefile.CloseCase{CaseID: ids["charlie"]}))

	titles := func(l casefile.CaseList) []string {
		out := make([]string, 0, len(l.PageContent))
		for _, c := range l.PageContent {
			out = append(out, c.Title)
		}
		return out
	}

	tests := []struct {
		name       string
		cmd        casefile.ListCases
		wantTitles []string
		wantTotal  int64
		wantPages  int
	}{
		{
			name:       "sorted by title",
			cmd:        casefile.ListCases{Sort: "title:asc"},
			wantTitles: []string{"alpha", "bravo", "charlie", "delta"},
			wantTotal:  4,
			wantPages:  1,
		},
		{
			name:       "second page",
			cmd:        casefile.ListCases{Sort: "title:desc", Request: pagination.Request{PageNumber: 2, PageSize: 3}},
			wantTitles: []string{"alpha"},
			wantTotal:  4,
			wantPages:  2,
		},
		{
			name:       "open only",
			cmd:        casefile.ListCases{Status: "open", Sort: "title:asc"},
			wantTitles: []string{"alpha", "bravo", "delta"},
			wantTotal:  3,
			wantPages:  1,
		},
		{
			name:       "unknown sort field falls back",
			cmd:        casefile.ListCases{Status: "closed", Sort: "password:asc"},
			wantTitles: []string{"charlie"},
			wantTotal:  1,
			wantPages:  1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := dispatch.Send[casefile.ListCases, casefile.CaseList](ctx, f.dispatcher, tc.cmd)

			require.NoError(t, err)
			assert.Equal(t, tc.wantTitles, titles(got))
			assert.Equal(t, tc.wantTotal, got.TotalCount)
			assert.Equal(t, tc.wantPages, got.PageCount)
		})
	}

	_, err := f.dispatcher.Dispatch(ctx, casefile.ListCases{Status: "pending"})
	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, val.CodeValidationFailed))
}
