// Package analyzer synthesizes stroke analyses. It stands in for a pose
// estimation pipeline: the payload is random but always structurally valid.
package analyzer

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"tennis-analyzer/internal/domain"
	"time"
)

const (
	minGeneratedScore = 70
	maxGeneratedScore = 99

	keypointJitter = 1.5
	minConfidence  = 0.70
	maxConfidence  = 0.99
)

// skeleton is the reference pose in percent-of-frame coordinates.
var skeleton = []domain.Keypoint{
	{X: 50.0, Y: 20.0, Part: "head"},
	{X: 50.0, Y: 26.7, Part: "neck"},
	{X: 43.8, Y: 30.0, Part: "leftShoulder"},
	{X: 56.3, Y: 30.0, Part: "rightShoulder"},
	{X: 37.5, Y: 41.7, Part: "leftElbow"},
	{X: 65.0, Y: 33.3, Part: "rightElbow"},
	{X: 32.5, Y: 53.3, Part: "leftWrist"},
	{X: 72.5, Y: 25.0, Part: "rightWrist"},
	{X: 50.0, Y: 43.3, Part: "hipCenter"},
	{X: 46.3, Y: 43.3, Part: "leftHip"},
	{X: 53.8, Y: 43.3, Part: "rightHip"},
	{X: 43.8, Y: 58.3, Part: "leftKnee"},
	{X: 56.3, Y: 58.3, Part: "rightKnee"},
	{X: 43.8, Y: 70.0, Part: "leftAnkle"},
	{X: 56.3, Y: 70.0, Part: "rightAnkle"},
}

// SkeletonConnections is the part-to-part topology rendered by clients.
var SkeletonConnections = []domain.Connection{
	{"head", "neck"},
	{"neck", "leftShoulder"},
	{"neck", "rightShoulder"},
	{"leftShoulder", "leftElbow"},
	{"rightShoulder", "rightElbow"},
	{"leftElbow", "leftWrist"},
	{"rightElbow", "rightWrist"},
	{"neck", "hipCenter"},
	{"hipCenter", "leftHip"},
	{"hipCenter", "rightHip"},
	{"leftHip", "leftKnee"},
	{"rightHip", "rightKnee"},
	{"leftKnee", "leftAnkle"},
	{"rightKnee", "rightAnkle"},
}

var observationPool = []domain.Observation{
	{Text: "Excellent racket preparation and grip positioning", Type: domain.ObservationPositive},
	{Text: "Good footwork with feet shoulder-width apart, creating a stable base", Type: domain.ObservationPositive},
	{Text: "Eyes stay fixed on the ball through the contact point", Type: domain.ObservationPositive},
	{Text: "Your elbow height could be higher during the forward swing", Type: domain.ObservationWarning},
	{Text: "Keep the wrist slightly firmer at contact for better control", Type: domain.ObservationWarning},
	{Text: "Limited hip rotation is restricting power transfer", Type: domain.ObservationNegative},
	{Text: "Weight transfer is incomplete, leaving you slightly off-balance", Type: domain.ObservationNegative},
}

var suggestionPool = []string{
	"Practice keeping your elbow at shoulder height during the forward swing phase",
	"Engage core muscles to increase hip rotation by 15-20 degrees",
	"Complete your follow-through with the racket finishing higher above your opposite shoulder",
	"Turn your shoulders more during preparation so the back shoulder points toward the net",
	"Step into the shot so your weight finishes on the front foot",
	"Make contact further in front of your body to improve timing",
}

// Generator produces mock analyses. It is safe for concurrent use.
type Generator struct {
	mu    sync.Mutex
	rng   *rand.Rand
	delay time.Duration
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand replaces the random source, mainly for reproducible tests.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		g.rng = rng
	}
}

// WithDelay simulates processing latency before each result.
func WithDelay(d time.Duration) Option {
	return func(g *Generator) {
		g.delay = d
	}
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		rng: rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate implements domain.AnalysisGenerator. The file contents are not inspected.
func (g *Generator) Generate(ctx context.Context, meta domain.FileMeta) (*domain.GeneratedAnalysis, error) {
	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	actionType := domain.ActionTypes[g.rng.IntN(len(domain.ActionTypes))]
	stage := domain.ActionStages[g.rng.IntN(len(domain.ActionStages))]

	scores := domain.Scores{
		Preparation:   g.score(),
		SwingPath:     g.score(),
		BodyPosition:  g.score(),
		FollowThrough: g.score(),
	}
	scores.Overall = domain.OverallScore(scores.Preparation, scores.SwingPath, scores.BodyPosition, scores.FollowThrough)

	return &domain.GeneratedAnalysis{
		ActionType:   actionType,
		ActionStage:  stage,
		Scores:       scores,
		Feedback:     feedback(scores.Overall, actionType, stage, meta.Kind),
		Keypoints:    g.keypoints(),
		Connections:  append([]domain.Connection(nil), SkeletonConnections...),
		Observations: pick(g.rng, observationPool, 2+g.rng.IntN(2)),
		Suggestions:  pick(g.rng, suggestionPool, 2+g.rng.IntN(2)),
	}, nil
}

func (g *Generator) score() int {
	return minGeneratedScore + g.rng.IntN(maxGeneratedScore-minGeneratedScore+1)
}

func (g *Generator) keypoints() []domain.Keypoint {
	out := make([]domain.Keypoint, len(skeleton))
	for i, kp := range skeleton {
		out[i] = domain.Keypoint{
			X:     clampPercent(kp.X + (g.rng.Float64()*2-1)*keypointJitter),
			Y:     clampPercent(kp.Y + (g.rng.Float64()*2-1)*keypointJitter),
			Part:  kp.Part,
			Score: round2(minConfidence + g.rng.Float64()*(maxConfidence-minConfidence)),
		}
	}
	return out
}

// pick draws n distinct items.
func pick[T any](rng *rand.Rand, pool []T, n int) []T {
	if n > len(pool) {
		n = len(pool)
	}
	idx := rng.Perm(len(pool))[:n]
	out := make([]T, n)
	for i, j := range idx {
		out[i] = pool[j]
	}
	return out
}

func feedback(overall int, action domain.ActionType, stage domain.ActionStage, kind domain.MediaKind) string {
	source := "upload"
	if kind != "" {
		source = string(kind)
	}
	return fmt.Sprintf("%s %s technique detected in the %s stage of your %s (overall score %d).",
		Rating(overall), action, stage.Label(), source, overall)
}

// Rating turns a 0-100 score into a descriptive word.
func Rating(score int) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 80:
		return "Very Good"
	case score >= 70:
		return "Good"
	case score >= 60:
		return "Fair"
	case score >= 50:
		return "Needs Improvement"
	default:
		return "Poor"
	}
}

func clampPercent(v float64) float64 {
	return round2(math.Max(0, math.Min(100, v)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var _ domain.AnalysisGenerator = (*Generator)(nil)
