// Package trace records per-step body state of a headless run as JSON lines.
package trace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/my3d/internal/physics"
)

// Record is one body at the end of one step.
type Record struct {
	Run       string     `json:"run"`
	Scene     string     `json:"scene"`
	Step      int        `json:"step"`
	Time      float32    `json:"t"`
	Body      string     `json:"body"`
	Position  [3]float32 `json:"pos"`
	Velocity  [3]float32 `json:"vel"`
	Grounded  bool       `json:"grounded"`
	AirTime   float32    `json:"air"`
	Meshes    int        `json:"meshes"`
	Triangles int        `json:"triangles"`
	Contacts  int        `json:"contacts"`
}

// Recorder writes records through a JSON zap core, one line per body per
// step. Every recorder gets a fresh run ID.
type Recorder struct {
	run    uuid.UUID
	scene  string
	log    *zap.Logger
	closer io.Closer
}

// New creates a recorder writing to w.
func New(w io.Writer, scene string) *Recorder {
	return newRecorder(w, scene, uuid.New())
}

func newRecorder(w io.Writer, scene string, run uuid.UUID) *Recorder {
	enc := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	})
	core := zapcore.NewCore(enc, zapcore.AddSync(w), zapcore.InfoLevel)
	r := &Recorder{run: run, scene: scene}
	r.log = zap.New(core).With(zap.String("run", r.run.String()), zap.String("scene", scene))
	if c, ok := w.(io.Closer); ok {
		r.closer = c
	}
	return r
}

// Create opens <dir>/<scene>-<run>.jsonl and returns a recorder writing to
// it. The directory is created if needed.
func Create(dir, scene string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating trace dir: %w", err)
	}
	run := uuid.New()
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.jsonl", fileStem(scene), run))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating trace file: %w", err)
	}
	return newRecorder(f, scene, run), nil
}

func fileStem(scene string) string {
	stem := strings.TrimSuffix(filepath.Base(scene), filepath.Ext(scene))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		return "scene"
	}
	return stem
}

// Scene returns the scene name stamped on every record.
func (r *Recorder) Scene() string { return r.scene }

// Run returns the run ID stamped on every record.
func (r *Recorder) Run() uuid.UUID { return r.run }

// Record writes one line per report. t is the simulated time at the end
// of the step.
func (r *Recorder) Record(step int, t float32, w *physics.World, reports []physics.StepReport) error {
	for _, rep := range reports {
		b, err := w.Body(rep.Body)
		if err != nil {
			return err
		}
		pos, vel := b.Position().Array(), b.Velocity().Array()
		r.log.Info("",
			zap.Int("step", step),
			zap.Float32("t", t),
			zap.String("body", rep.Body),
			zap.Float32s("pos", pos[:]),
			zap.Float32s("vel", vel[:]),
			zap.Bool("grounded", b.Grounded()),
			zap.Float32("air", b.AirTime()),
			zap.Int("meshes", rep.CandidateMeshes),
			zap.Int("triangles", rep.CandidateTriangles),
			zap.Int("contacts", rep.Contacts))
	}
	return nil
}

// Close flushes and closes the underlying writer if it is closable.
func (r *Recorder) Close() error {
	err := r.log.Sync()
	if r.closer != nil {
		err = multierr.Append(err, r.closer.Close())
	}
	return err
}

// Read decodes every record from rd.
func Read(rd io.Reader) ([]Record, error) {
	var out []Record
	dec := json.NewDecoder(rd)
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, fmt.Errorf("decoding record %d: %w", len(out), err)
		}
		out = append(out, rec)
	}
}
