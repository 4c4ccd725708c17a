package httpserver

import (
	"context"
	"encoding/base64"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/girishnp17/Avaa-AI/internal/interview"
	"github.com/girishnp17/Avaa-AI/internal/media"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  8192,
	WriteBufferSize: 8192,
	// browser demos connect from arbitrary origins
	CheckOrigin: func(*http.Request) bool { return true },
}

// clientEvent is the envelope for every message the client sends.
type clientEvent struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`

	// create_session
	ResumeText string `json:"resume_text,omitempty"`
	JobText    string `json:"job_description,omitempty"`

	// audio_chunk
	Audio    string `json:"audio,omitempty"` // base64
	MimeType string `json:"mime_type,omitempty"`
}

func (s *Server) handleWS(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	s.serveConn(c.Request().Context(), conn)
	return nil
}

// wsConn is the per-connection interview driver state. One goroutine reads,
// handles, and writes, so no write lock is needed.
type wsConn struct {
	server *Server
	conn   *websocket.Conn
	sess   *interview.Session
	buf    *media.Buffer // assembles the current recording in arrival order
}

func (s *Server) serveConn(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()
	w := &wsConn{server: s, conn: conn, buf: media.NewBuffer()}

	for {
		var ev clientEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[ws] read: %v", err)
			}
			// the session stays in the registry so the client can reconnect;
			// the janitor reaps it if nobody comes back
			return
		}
		if err := w.handle(ctx, ev); err != nil {
			log.Printf("[ws] write: %v", err)
			return
		}
	}
}

func (w *wsConn) handle(ctx context.Context, ev clientEvent) error {
	switch ev.Type {
	case "create_session":
		return w.createSession(ctx, ev)
	case "request_question":
		return w.requestQuestion(ev)
	case "audio_chunk":
		return w.audioChunk(ev)
	case "finish_recording":
		return w.finishRecording(ev)
	case "poll_transcription":
		return w.pollTranscription(ev)
	case "get_status":
		return w.getStatus(ev)
	case "end_session":
		return w.endSession(ctx, ev)
	default:
		return w.writeError("bad_request", "unknown event type: "+ev.Type)
	}
}

func (w *wsConn) createSession(ctx context.Context, ev clientEvent) error {
	if ev.ResumeText == "" || ev.JobText == "" {
		return w.writeError("bad_request", "resume_text and job_description are required")
	}
	if w.sess != nil {
		return w.writeError("duplicate_session", "connection already drives session "+w.sess.ID)
	}

	parseCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()
	prof, err := w.server.deps.Parser.ParseResume(parseCtx, ev.ResumeText)
	if err != nil {
		return w.writeError("parse_failed", "resume parsing failed: "+err.Error())
	}
	job, err := w.server.deps.Parser.ParseJob(parseCtx, ev.JobText)
	if err != nil {
		return w.writeError("parse_failed", "job parsing failed: "+err.Error())
	}

	id := uuid.NewString()
	sess := w.server.deps.NewSession(id, prof, job)
	if err := w.server.deps.Registry.Put(sess); err != nil {
		sess.Close()
		return w.writeError("duplicate_session", err.Error())
	}
	w.sess = sess

	return w.write(map[string]interface{}{
		"type":            "session_created",
		"session_id":      id,
		"candidate_name":  prof.Name,
		"total_questions": sess.MaxQuestions(),
	})
}

// resolve returns the session for the event: the connection-bound one, or a
// registry lookup when the client reattaches by ID.
func (w *wsConn) resolve(ev clientEvent) (*interview.Session, error) {
	if ev.SessionID != "" {
		sess, err := w.server.deps.Registry.Get(ev.SessionID)
		if err != nil {
			return nil, err
		}
		w.sess = sess
		return sess, nil
	}
	if w.sess == nil {
		return nil, interview.ErrSessionNotFound
	}
	return w.sess, nil
}

func (w *wsConn) requestQuestion(ev clientEvent) error {
	sess, err := w.resolve(ev)
	if err != nil {
		return w.writeError("session_not_found", err.Error())
	}
	pq, err := sess.DeliverQuestion()
	if err != nil {
		switch {
		case errors.Is(err, interview.ErrInterviewComplete):
			return w.writeError("interview_complete", "all questions have been asked; send end_session")
		case errors.Is(err, interview.ErrSessionClosed):
			return w.writeError("session_closed", err.Error())
		default:
			return w.writeError("question_failed", err.Error())
		}
	}
	payload := map[string]interface{}{
		"type":            "question_ready",
		"session_id":      sess.ID,
		"question_number": pq.Ordinal,
		"question":        pq.Text,
		"category":        string(pq.Category),
		"has_audio":       pq.HasAudio(),
	}
	if pq.HasAudio() {
		payload["audio"] = base64.StdEncoding.EncodeToString(pq.Audio)
	}
	return w.write(payload)
}

func (w *wsConn) audioChunk(ev clientEvent) error {
	if _, err := w.resolve(ev); err != nil {
		return w.writeError("session_not_found", err.Error())
	}
	chunk, err := base64.StdEncoding.DecodeString(ev.Audio)
	if err != nil {
		return w.writeError("bad_request", "audio is not valid base64")
	}
	if err := w.buf.Append(chunk, ev.MimeType); err != nil {
		if errors.Is(err, media.ErrUnsupportedAudio) {
			return w.writeError("unsupported_audio", err.Error())
		}
		return w.writeError("bad_request", err.Error())
	}
	return w.write(map[string]interface{}{
		"type":           "chunk_ack",
		"buffered_bytes": w.buf.Len(),
	})
}

func (w *wsConn) finishRecording(ev clientEvent) error {
	sess, err := w.resolve(ev)
	if err != nil {
		return w.writeError("session_not_found", err.Error())
	}
	data := w.buf.Bytes()
	mime := w.buf.MIME()
	w.buf.Reset()

	ordinal, err := sess.CaptureAnswer(data, mime)
	if err != nil {
		switch {
		case errors.Is(err, interview.ErrNoAudioReceived):
			return w.writeError("no_audio", "no audio chunks were received for this answer")
		case errors.Is(err, interview.ErrNoQuestionDelivered):
			return w.writeError("no_question", err.Error())
		case errors.Is(err, interview.ErrSessionClosed):
			return w.writeError("session_closed", err.Error())
		default:
			return w.writeError("capture_failed", err.Error())
		}
	}
	return w.write(map[string]interface{}{
		"type":            "recording_ack",
		"session_id":      sess.ID,
		"question_number": ordinal,
	})
}

func (w *wsConn) pollTranscription(ev clientEvent) error {
	sess, err := w.resolve(ev)
	if err != nil {
		return w.writeError("session_not_found", err.Error())
	}
	ans, ready, err := sess.PollTranscription()
	if err != nil {
		return w.writeError("session_closed", err.Error())
	}
	if !ready {
		return w.write(map[string]interface{}{
			"type":       "transcription_pending",
			"session_id": sess.ID,
		})
	}
	return w.write(map[string]interface{}{
		"type":            "transcription_ready",
		"session_id":      sess.ID,
		"question_number": ans.Ordinal,
		"question":        ans.Question,
		"answer":          ans.Text,
		"failed":          ans.Failed,
	})
}

func (w *wsConn) getStatus(ev clientEvent) error {
	sess, err := w.resolve(ev)
	if err != nil {
		return w.writeError("session_not_found", err.Error())
	}
	st := sess.Status()
	return w.write(map[string]interface{}{
		"type":   "status",
		"status": st,
	})
}

func (w *wsConn) endSession(ctx context.Context, ev clientEvent) error {
	sess, err := w.resolve(ev)
	if err != nil {
		return w.writeError("session_not_found", err.Error())
	}
	finishCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	result, err := sess.Finish(finishCtx)
	if err != nil {
		if errors.Is(err, interview.ErrSessionClosed) {
			return w.writeError("session_closed", err.Error())
		}
		return w.writeError("finish_failed", err.Error())
	}
	if err := w.server.deps.Registry.Destroy(sess.ID); err != nil && !errors.Is(err, interview.ErrSessionNotFound) {
		log.Printf("[ws] destroy %s: %v", sess.ID, err)
	}
	id := sess.ID
	w.sess = nil

	return w.write(map[string]interface{}{
		"type":          "interview_ended",
		"session_id":    id,
		"report":        result.Report,
		"transcript":    result.Transcript,
		"qa_history":    result.History,
		"artifact_path": result.ArtifactPath,
	})
}

func (w *wsConn) write(payload interface{}) error {
	return w.conn.WriteJSON(payload)
}

func (w *wsConn) writeError(code, message string) error {
	return w.write(map[string]interface{}{
		"type":    "error",
		"code":    code,
		"message": message,
	})
}
