package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthbot/pkg/clock"
	"healthbot/pkg/diary"
	"healthbot/pkg/intake"
	"healthbot/pkg/llm"
	"healthbot/pkg/metrics"
	"healthbot/pkg/record"
)

// Pending state tags for single-shot continuations. Intake tags come from
// intake.FieldTag.
const (
	stateSymptom         = "awaiting-symptom"
	statePressure        = "awaiting-pressure"
	stateSugar           = "awaiting-sugar"
	stateQuestion        = "awaiting-specialist-question"
	stateProduct         = "awaiting-product"
	stateWorkoutLocation = "awaiting-workout-location"
	stateFoodPhoto       = "awaiting-food-photo"
)

// Awards are the score deltas applied by the router's flows.
type Awards struct {
	ProfileFirstTime int
	ProfileUpdate    int
	Workout          int
	Mood             int
}

type Handler struct {
	store     RecordStore
	generator Generator
	intake    *intake.Machine
	ledger    *diary.Ledger
	clock     clock.Clock
	metrics   *metrics.Metrics
	log       *zap.Logger
}

func NewHandler(store RecordStore, g Generator, c clock.Clock, awards Awards, m *metrics.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		store:     store,
		generator: g,
		intake:    intake.NewMachine(c, intake.Awards{FirstTime: awards.ProfileFirstTime, Update: awards.ProfileUpdate}),
		ledger:    diary.NewLedger(c, diary.Awards{Workout: awards.Workout, Mood: awards.Mood}),
		clock:     c,
		metrics:   m,
		log:       logger,
	}
}

// turn carries everything one inbound event needs. The record is the single
// per-user session object; flows mutate it in place.
type turn struct {
	ctx     context.Context
	ev      Event
	rec     *record.UserRecord
	log     *zap.Logger
	flow    string
	replies []Reply
}

func (t *turn) say(text string, kb *Keyboard) {
	t.replies = append(t.replies, Reply{Text: text, Keyboard: kb})
}

// Handle runs one turn for ev.UserID: lock, load, dispatch, save. Turns of the
// same user never overlap. The only error returned is *record.StoreError;
// every other failure ends in a reply.
func (h *Handler) Handle(ctx context.Context, ev Event) ([]Reply, error) {
	start := time.Now()
	logger := h.log.With(zap.String("user_id", ev.UserID), zap.String("turn_id", uuid.NewString()))

	unlock := h.store.Lock(ev.UserID)
	defer unlock()

	rec, err := h.store.Load(ctx, ev.UserID)
	if err != nil {
		h.storeFailed(logger, err)
		return nil, err
	}
	before, err := encodeSnapshot(rec)
	if err != nil {
		h.storeFailed(logger, err)
		return nil, err
	}

	if ev.DisplayName != "" {
		rec.DisplayName = ev.DisplayName
	}

	t := &turn{ctx: ctx, ev: ev, rec: rec, log: logger}
	h.dispatch(t)

	after, err := encodeSnapshot(rec)
	if err != nil {
		h.storeFailed(logger, err)
		return nil, err
	}
	if !bytes.Equal(before, after) {
		if err := h.store.Save(ctx, rec); err != nil {
			h.storeFailed(logger, err)
			return nil, err
		}
	}

	h.metrics.ObserveTurn(t.flow, time.Since(start))
	logger.Debug("turn handled",
		zap.String("flow", t.flow),
		zap.String("state", rec.PendingState),
		zap.Int("replies", len(t.replies)),
	)
	return t.replies, nil
}

// encodeSnapshot is the JSON form used to detect whether a turn changed the
// record. A record that cannot be encoded cannot be saved either.
func encodeSnapshot(rec *record.UserRecord) ([]byte, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, &record.StoreError{Op: "encode", ID: rec.ID, Err: err}
	}
	return data, nil
}

func (h *Handler) storeFailed(logger *zap.Logger, err error) {
	op := "unknown"
	var storeErr *record.StoreError
	if errors.As(err, &storeErr) {
		op = storeErr.Op
	}
	h.metrics.StoreError(op)
	logger.Error("record store failed", zap.String("op", op), zap.Error(err))
}

// dispatch routes a turn exclusively to the pending continuation, if any, and
// to top-level routing otherwise.
func (h *Handler) dispatch(t *turn) {
	if t.rec.PendingState != "" {
		err := h.resume(t)
		if err == nil {
			return
		}
		t.log.Warn("clearing pending state", zap.Error(err))
		h.metrics.CorruptState()
		t.rec.PendingState = ""
		t.rec.IntakeDraft = nil
	}

	if len(t.ev.Photo) > 0 {
		h.analyzeFood(t)
		return
	}
	h.command(t)
}

// resume hands the turn to the handler of the pending state. It returns a
// *CorruptStateError, and does nothing else, when no handler owns the tag.
func (h *Handler) resume(t *turn) error {
	state := t.rec.PendingState

	if _, ok := intake.ParseFieldTag(state); ok {
		t.flow = "intake"
		h.continueIntake(t)
		return nil
	}

	var next func(*turn)
	switch state {
	case stateSymptom:
		next = h.continueSymptom
	case statePressure:
		next = h.continuePressure
	case stateSugar:
		next = h.continueSugar
	case stateQuestion:
		next = h.continueQuestion
	case stateProduct:
		next = h.continueProduct
	case stateWorkoutLocation:
		next = h.continueWorkoutLocation
	case stateFoodPhoto:
		next = h.continueFoodPhoto
	default:
		return &CorruptStateError{State: state}
	}

	t.flow = state
	if intake.IsCancel(t.ev.Text) && len(t.ev.Photo) == 0 {
		t.rec.PendingState = ""
		t.say(msgCancelled, mainMenu(t.rec))
		return nil
	}
	next(t)
	return nil
}

// generate calls the backend. Failures are logged, counted and returned as
// *BackendError.
func (h *Handler) generate(t *turn, directive, text string, image []byte) (string, error) {
	if h.generator == nil {
		return "", &BackendError{Flow: t.flow, Err: errors.New("no generator configured")}
	}
	out, err := h.generator.Generate(t.ctx, llm.Request{Directive: directive, UserText: text, Image: image})
	if err != nil {
		h.metrics.BackendFailure(t.flow)
		t.log.Warn("generation failed", zap.String("flow", t.flow), zap.Error(err))
		return "", &BackendError{Flow: t.flow, Err: err}
	}
	return out, nil
}
