package detectionService

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// NoEyes in a score script stands for a frame where no eyes were found.
const NoEyes = "x"

type scriptedScorer struct {
	mu     sync.Mutex
	scores []*float64
	next   int
}

// NewScriptedScorer replays a comma separated list of probabilities, one per
// frame, wrapping around at the end. An empty script never finds eyes.
func NewScriptedScorer(script string) (Scorer, error) {
	s := &scriptedScorer{}

	for _, field := range strings.Split(script, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		if field == NoEyes {
			s.scores = append(s.scores, nil)
			continue
		}

		p, err := strconv.ParseFloat(field, 64)
		if err != nil || p < 0 || p > 1 {
			return nil, fmt.Errorf("invalid score %q: want a probability in [0,1] or %q", field, NoEyes)
		}
		s.scores = append(s.scores, &p)
	}

	return s, nil
}

func (s *scriptedScorer) Score(ctx context.Context, image []byte) (float64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.scores) == 0 {
		return 0, false, nil
	}

	p := s.scores[s.next%len(s.scores)]
	s.next++

	if p == nil {
		return 0, false, nil
	}
	return *p, true, nil
}
