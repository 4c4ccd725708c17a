package interview

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/girishnp17/Avaa-AI/internal/media"
	"github.com/girishnp17/Avaa-AI/internal/profile"
	"github.com/girishnp17/Avaa-AI/internal/question"
	"github.com/girishnp17/Avaa-AI/internal/speech"
	"github.com/girishnp17/Avaa-AI/internal/transcribe"
)

const fixedStarterCount = 3

// placeholderNoAnswer fills any ordinal whose transcription never arrived.
const placeholderNoAnswer = "[no answer / failed]"

// Generator produces free-form text for a system+user prompt pair.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// ArtifactStore persists the final transcript record.
type ArtifactStore interface {
	SaveTranscript(ctx context.Context, sessionID string, text []byte) (string, error)
}

// Deps are the external collaborators of a session.
type Deps struct {
	Source    *question.Source
	Synth     speech.Synthesizer // nil disables audio
	STT       speech.Transcriber // nil disables transcription
	Pool      *transcribe.Pool
	ReportGen Generator     // nil disables report generation
	Store     ArtifactStore // nil disables persistence
}

// Options tune session behavior; zero values take defaults.
type Options struct {
	MaxQuestions      int           // default 15
	Lookahead         int           // max concurrent dynamic preparations, default 2
	SynthTimeout      time.Duration // default 20s
	GenerateTimeout   time.Duration // default 30s
	TranscribeTimeout time.Duration // default 90s
	DrainTimeout      time.Duration // default 60s, bound on Finish waiting for results
	SubmitTimeout     time.Duration // default 15s, backpressure bound on pool submission
}

func (o *Options) applyDefaults() {
	if o.MaxQuestions <= 0 {
		o.MaxQuestions = 15
	}
	if o.Lookahead <= 0 {
		o.Lookahead = 2
	}
	if o.SynthTimeout <= 0 {
		o.SynthTimeout = 20 * time.Second
	}
	if o.GenerateTimeout <= 0 {
		o.GenerateTimeout = 30 * time.Second
	}
	if o.TranscribeTimeout <= 0 {
		o.TranscribeTimeout = 90 * time.Second
	}
	if o.DrainTimeout <= 0 {
		o.DrainTimeout = 60 * time.Second
	}
	if o.SubmitTimeout <= 0 {
		o.SubmitTimeout = 15 * time.Second
	}
}

// Session orchestrates one interview: question staging, answer capture,
// transcription results, coverage, and the final report.
type Session struct {
	ID string

	profile profile.Profile
	job     profile.JobContext
	deps    Deps
	opts    Options

	staging  *stagingQueue
	results  chan Answer
	coverage *coverageState

	// prepSlots bounds concurrent dynamic question preparation.
	prepSlots chan struct{}

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	phase       Phase
	asked       int
	current     *PreparedQuestion
	pending     map[int]PreparedQuestion // staged out of turn, keyed by ordinal
	delivered   map[int]question.Spec
	answers     map[int]Answer
	inflight    map[int]struct{}
	lastTouched time.Time
}

// New creates a session with profile and job loaded, and eagerly submits the
// three fixed-starter preparation tasks in parallel.
func New(id string, prof profile.Profile, job profile.JobContext, deps Deps, opts Options) *Session {
	opts.applyDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:          id,
		profile:     prof,
		job:         job,
		deps:        deps,
		opts:        opts,
		staging:     newStagingQueue(opts.MaxQuestions),
		results:     make(chan Answer, opts.MaxQuestions),
		coverage:    newCoverageState(),
		prepSlots:   make(chan struct{}, opts.Lookahead),
		ctx:         ctx,
		cancel:      cancel,
		phase:       PhaseCreated,
		pending:     make(map[int]PreparedQuestion),
		delivered:   make(map[int]question.Spec),
		answers:     make(map[int]Answer),
		inflight:    make(map[int]struct{}),
		lastTouched: time.Now(),
	}

	s.phase = PhasePreparing
	for i := 1; i <= fixedStarterCount && i <= opts.MaxQuestions; i++ {
		spec, err := deps.Source.NextFixed(i)
		if err != nil {
			log.Printf("[%s] fixed question %d: %v", id, i, err)
			continue
		}
		go s.prepare(spec)
	}
	return s
}

// prepare synthesizes audio for a ready spec and stages it.
func (s *Session) prepare(spec question.Spec) {
	pq := PreparedQuestion{Spec: spec}
	if s.deps.Synth != nil {
		ctx, cancel := context.WithTimeout(s.ctx, s.opts.SynthTimeout)
		audio, err := s.deps.Synth.Synthesize(ctx, spec.Text)
		cancel()
		if err != nil {
			log.Printf("[%s] synthesis for question %d failed, staging text-only: %v", s.ID, spec.Ordinal, err)
		} else {
			pq.Audio = audio
		}
	}
	if s.ctx.Err() != nil {
		return
	}
	if !s.staging.push(pq) {
		log.Printf("[%s] staging queue full, dropping prepared question %d", s.ID, spec.Ordinal)
	}
}

// prepareDynamic generates and stages a personalized question in the
// background, bounded by the look-ahead limit.
func (s *Session) prepareDynamic(ordinal int) {
	go func() {
		select {
		case s.prepSlots <- struct{}{}:
		case <-s.ctx.Done():
			return
		}
		defer func() { <-s.prepSlots }()

		cov := s.coverage.snapshot()
		hist := s.exchangeHistory()
		ctx, cancel := context.WithTimeout(s.ctx, s.opts.GenerateTimeout)
		spec, err := s.deps.Source.Generate(ctx, s.profile, s.job, hist, cov, ordinal)
		cancel()
		if err != nil {
			if s.ctx.Err() != nil {
				return
			}
			log.Printf("[%s] question %d generation failed, using fallback: %v", s.ID, ordinal, err)
			spec = s.deps.Source.Fallback(s.profile, cov, ordinal)
			spec.Ordinal = ordinal
		}
		s.prepare(spec)
	}()
}

// exchangeHistory builds the generation context from answers absorbed so far.
func (s *Session) exchangeHistory() []question.Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []question.Exchange
	for i := 1; i <= s.asked; i++ {
		spec, ok := s.delivered[i]
		if !ok {
			continue
		}
		ex := question.Exchange{Question: spec}
		if ans, ok := s.answers[i]; ok {
			ex.Answer = ans.Text
		}
		out = append(out, ex)
	}
	return out
}

// DeliverQuestion returns the question for the next ordinal: a staged
// PreparedQuestion when available, otherwise a synchronous fallback so the
// interview never stalls on a slow background call. Calling it again before
// the answer is captured returns the same question.
func (s *Session) DeliverQuestion() (PreparedQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTouched = time.Now()

	if s.phase == PhaseEnded {
		return PreparedQuestion{}, ErrSessionClosed
	}
	if s.asked >= s.opts.MaxQuestions {
		return PreparedQuestion{}, ErrInterviewComplete
	}
	if s.current != nil {
		return *s.current, nil
	}

	ordinal := s.asked + 1
	pq, ok := s.takeStagedLocked(ordinal)
	if !ok {
		if ordinal <= fixedStarterCount {
			spec, err := s.deps.Source.NextFixed(ordinal)
			if err != nil {
				return PreparedQuestion{}, err
			}
			pq = PreparedQuestion{Spec: spec}
		} else {
			spec := s.deps.Source.Fallback(s.profile, s.coverage.snapshot(), ordinal)
			spec.Ordinal = ordinal
			pq = PreparedQuestion{Spec: spec}
		}
	}
	pq.Ordinal = ordinal

	s.delivered[ordinal] = pq.Spec
	s.current = &pq
	s.phase = PhaseAwaitingAnswer
	// A delivered question claims the profile elements it names, steering
	// later generation away from them.
	s.coverage.update(s.profile, pq.Text, "")
	return pq, nil
}

// takeStagedLocked returns the staged question for the given ordinal, holding
// out-of-order items aside and discarding items for ordinals already passed.
func (s *Session) takeStagedLocked(ordinal int) (PreparedQuestion, bool) {
	if pq, ok := s.pending[ordinal]; ok {
		delete(s.pending, ordinal)
		return pq, true
	}
	for {
		item, ok := s.staging.tryPop()
		if !ok {
			return PreparedQuestion{}, false
		}
		switch {
		case item.Ordinal == ordinal:
			return item, true
		case item.Ordinal > ordinal:
			s.pending[item.Ordinal] = item
		default:
			// stale preparation for a slot that already went out as a fallback
		}
	}
}

// CaptureAnswer hands the finished recording to the transcription pool,
// increments asked, and schedules preparation of the next dynamic question.
// It returns the ordinal the answer belongs to.
func (s *Session) CaptureAnswer(audio []byte, encodingHint string) (int, error) {
	s.mu.Lock()
	s.lastTouched = time.Now()
	if s.phase == PhaseEnded {
		s.mu.Unlock()
		return 0, ErrSessionClosed
	}
	if s.current == nil {
		s.mu.Unlock()
		return 0, ErrNoQuestionDelivered
	}
	if len(audio) == 0 {
		// the caller may retry capture for the same ordinal
		s.mu.Unlock()
		return 0, ErrNoAudioReceived
	}

	ordinal := s.asked + 1
	spec := s.current.Spec
	s.asked++
	s.current = nil
	delete(s.pending, ordinal)
	s.inflight[ordinal] = struct{}{}
	s.phase = PhaseTranscribing
	submitPrep := s.asked >= fixedStarterCount && s.asked < s.opts.MaxQuestions
	nextOrdinal := s.asked + 1
	s.mu.Unlock()

	submitCtx, cancel := context.WithTimeout(s.ctx, s.opts.SubmitTimeout)
	err := s.deps.Pool.Submit(submitCtx, func(ctx context.Context) {
		s.runTranscription(ordinal, spec, audio, encodingHint)
	})
	cancel()
	if err != nil {
		// never drop the turn: record the failure as a placeholder answer
		log.Printf("[%s] transcription submit for question %d failed: %v", s.ID, ordinal, err)
		s.publish(Answer{
			Ordinal:   ordinal,
			Question:  spec.Text,
			Text:      fmt.Sprintf("[Transcription failed: %v]", err),
			Failed:    true,
			Timestamp: time.Now(),
		})
	}

	if submitPrep {
		s.prepareDynamic(nextOrdinal)
	}
	return ordinal, nil
}

// runTranscription executes on a pool worker: convert the recording, call the
// speech backend, update coverage, and publish the answer.
func (s *Session) runTranscription(ordinal int, spec question.Spec, audio []byte, encodingHint string) {
	ans := Answer{Ordinal: ordinal, Question: spec.Text, Timestamp: time.Now()}

	wav, mime, err := media.NormalizeForTranscription(audio, encodingHint)
	if err == nil {
		if s.deps.STT == nil {
			err = fmt.Errorf("no transcription backend configured")
		} else {
			ctx, cancel := context.WithTimeout(s.ctx, s.opts.TranscribeTimeout)
			var text string
			text, err = s.deps.STT.Transcribe(ctx, wav, mime)
			cancel()
			if err == nil {
				ans.Text = strings.TrimSpace(text)
				if ans.Text == "" {
					ans.Text = placeholderNoAnswer
					ans.Failed = true
				}
			}
		}
	}
	if err != nil {
		ans.Text = fmt.Sprintf("[Transcription failed: %v]", err)
		ans.Failed = true
	}

	if !ans.Failed {
		s.coverage.update(s.profile, spec.Text, ans.Text)
	}
	ans.Timestamp = time.Now()
	s.publish(ans)
}

func (s *Session) publish(ans Answer) {
	s.mu.Lock()
	delete(s.inflight, ans.Ordinal)
	s.mu.Unlock()
	select {
	case s.results <- ans:
	default:
		// results is sized to the interview length with at most one in-flight
		// transcription per ordinal, so this only fires after Close
		log.Printf("[%s] dropping result for question %d: results queue full", s.ID, ans.Ordinal)
	}
}

// PollTranscription is the non-blocking ready-check: it absorbs and returns the
// next available answer, or reports pending.
func (s *Session) PollTranscription() (Answer, bool, error) {
	s.mu.Lock()
	if s.phase == PhaseEnded {
		s.mu.Unlock()
		return Answer{}, false, ErrSessionClosed
	}
	s.lastTouched = time.Now()
	s.mu.Unlock()

	select {
	case ans := <-s.results:
		s.absorb(ans)
		return ans, true, nil
	default:
		return Answer{}, false, nil
	}
}

// absorb appends an answer to the history and releases the Transcribing phase
// once nothing is in flight.
func (s *Session) absorb(ans Answer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.answers[ans.Ordinal]; !dup {
		s.answers[ans.Ordinal] = ans
	}
	if s.phase == PhaseTranscribing && len(s.inflight) == 0 {
		s.phase = PhaseAwaitingAnswer
	}
}

// Finish drains outstanding transcriptions (bounded), fills placeholders for
// ordinals with no answer, generates the report, persists the transcript, and
// ends the session. Any later call on the session returns ErrSessionClosed.
func (s *Session) Finish(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	if s.phase == PhaseEnded || s.phase == PhaseReporting {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	s.phase = PhaseReporting
	asked := s.asked
	s.mu.Unlock()

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.DrainTimeout)
		defer cancel()
	}

	// drain until every captured ordinal has an answer or the deadline hits
	for ctx.Err() == nil {
		s.mu.Lock()
		remaining := asked - len(s.answers)
		s.mu.Unlock()
		if remaining <= 0 {
			break
		}
		select {
		case ans := <-s.results:
			s.absorb(ans)
		case <-ctx.Done():
		}
	}

	s.mu.Lock()
	history := make([]Answer, 0, asked)
	for i := 1; i <= asked; i++ {
		if ans, ok := s.answers[i]; ok {
			history = append(history, ans)
			continue
		}
		qText := s.delivered[i].Text
		history = append(history, Answer{
			Ordinal:   i,
			Question:  qText,
			Text:      placeholderNoAnswer,
			Failed:    true,
			Timestamp: time.Now(),
		})
	}
	delivered := make(map[int]question.Spec, len(s.delivered))
	for k, v := range s.delivered {
		delivered[k] = v
	}
	s.mu.Unlock()

	report := s.buildReport(history)
	transcript := renderTranscript(s.ID, s.profile, delivered, history, s.coverage.snapshot())

	result := &Result{Report: report, Transcript: transcript, History: history}
	if s.deps.Store != nil {
		saveCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		path, err := s.deps.Store.SaveTranscript(saveCtx, s.ID, []byte(transcript))
		cancel()
		if err != nil {
			log.Printf("[%s] transcript save failed: %v", s.ID, err)
		} else {
			result.ArtifactPath = path
		}
	}

	s.mu.Lock()
	s.phase = PhaseEnded
	s.mu.Unlock()
	s.cancel()
	return result, nil
}

// Close ends the session without producing a report, cancelling any pending
// preparation or transcription work. Used for abandonment.
func (s *Session) Close() {
	s.mu.Lock()
	s.phase = PhaseEnded
	s.mu.Unlock()
	s.cancel()
}

// Status returns a progress snapshot.
func (s *Session) Status() Status {
	s.mu.Lock()
	phase := s.phase
	asked := s.asked
	s.lastTouched = time.Now()
	s.mu.Unlock()

	cov := s.coverage.snapshot()
	total := s.opts.MaxQuestions
	return Status{
		SessionID:         s.ID,
		Phase:             phase.String(),
		Asked:             asked,
		Total:             total,
		ProgressPercent:   float64(asked) / float64(total) * 100,
		SkillsDiscussed:   cov.SkillsDiscussed,
		ProjectsDiscussed: cov.ProjectsDiscussed,
		TopicsCovered:     cov.TopicsCovered,
		Complete:          asked >= total,
	}
}

// Asked returns the number of completed answer captures.
func (s *Session) Asked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.asked
}

// MaxQuestions returns the interview length.
func (s *Session) MaxQuestions() int { return s.opts.MaxQuestions }

// Profile returns the immutable candidate profile.
func (s *Session) Profile() profile.Profile { return s.profile }

// LastActive reports when the session was last touched by a driver.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTouched
}
