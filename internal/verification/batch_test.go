package verification_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeverify/internal/verification"
	"tradeverify/pkg/platform/audit"
	"tradeverify/pkg/platform/audit/publisher"
	"tradeverify/pkg/platform/audit/store/memory"
	"tradeverify/pkg/requestcontext"
)

func TestBatch_ResultsAlignWithRequests(t *testing.T) {
	v := verification.VerifierFunc(func(_ context.Context, req verification.Request) (verification.Result, error) {
		// Later items finish first.
		if req.Value == "first" {
			time.Sleep(10 * time.Millisecond)
		}
		return verification.Result{Kind: req.Kind, Verified: true, Message: req.Value, Source: "exa"}, nil
	})
	reqs := []verification.Request{
		{Kind: verification.KindCompany, Value: "first"},
		{Kind: verification.KindSwift, Value: "second"},
		{Kind: verification.KindPort, Value: "third"},
	}

	out := verification.NewBatch(v, 3, nil, nil).Run(context.Background(), reqs)

	require.Len(t, out.Results, 3)
	for i, req := range reqs {
		assert.Equal(t, req.Value, out.Results[i].Message)
		assert.Equal(t, req.Kind, out.Results[i].Kind)
	}
	assert.Empty(t, out.Errors)
	assert.NotNil(t, out.Errors)
}

func TestBatch_IsolatesFailures(t *testing.T) {
	v := verification.VerifierFunc(func(_ context.Context, req verification.Request) (verification.Result, error) {
		switch req.Value {
		case "panic":
			panic("nil map write")
		case "unknown":
			return verification.New(nil).Verify(context.Background(), req)
		}
		return verification.Result{Kind: req.Kind, Verified: true, Source: "exa"}, nil
	})
	reqs := []verification.Request{
		{Kind: verification.KindCompany, Value: "ok"},
		{Kind: verification.KindCompany, Value: "panic"},
		{Kind: "iban", Value: "unknown"},
		{Kind: verification.KindSwift, Value: "ok"},
	}

	out := verification.NewBatch(v, 2, nil, nil).Run(context.Background(), reqs)

	require.Len(t, out.Results, 4)
	assert.True(t, out.Results[0].Verified)
	assert.True(t, out.Results[3].Verified)
	for _, i := range []int{1, 2} {
		assert.False(t, out.Results[i].Verified)
		assert.Equal(t, verification.SourceError, out.Results[i].Source)
		assert.Equal(t, reqs[i].Kind, out.Results[i].Kind)
	}
	require.Len(t, out.Errors, 2)
	assert.Equal(t, 1, out.Errors[0].Index)
	assert.Contains(t, out.Errors[0].Error, "nil map write")
	assert.Equal(t, 2, out.Errors[1].Index)
}

func TestBatch_BoundsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	v := verification.VerifierFunc(func(_ context.Context, req verification.Request) (verification.Result, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return verification.Result{Kind: req.Kind}, nil
	})
	reqs := make([]verification.Request, 12)
	for i := range reqs {
		reqs[i] = verification.Request{Kind: verification.KindHSCode, Value: "6203"}
	}

	verification.NewBatch(v, 3, nil, nil).Run(context.Background(), reqs)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestBatch_EmitsSummaryEvent(t *testing.T) {
	v := verification.VerifierFunc(func(_ context.Context, req verification.Request) (verification.Result, error) {
		return verification.Result{Kind: req.Kind, Verified: req.Value == "BCITITMM", Source: "api_ninjas"}, nil
	})
	sink := memory.NewInMemoryStore()
	batch := verification.NewBatch(v, 2, nil, nil).WithEmitter(publisher.NewPublisher(sink))

	ctx := requestcontext.WithRequestID(context.Background(), "req-batch")
	batch.Run(ctx, []verification.Request{
		{Kind: verification.KindSwift, Value: "BCITITMM"},
		{Kind: verification.KindSwift, Value: "XXXXXXXX"},
	})

	events, err := sink.ListByAction(context.Background(), audit.EventBatchVerified)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "req-batch", events[0].RequestID)
	assert.Equal(t, map[string]int{"items": 2, "verified": 1, "errors": 0}, events[0].Counts)
	assert.True(t, events[0].Verified)
}
