package insight

import (
	"errors"
	"strings"
)

// maxBullets caps how many tips make it to the dashboard.
const maxBullets = 3

// ErrNoInsights means the model response contained no usable bullets.
var ErrNoInsights = errors.New("no insights in model response")

// ParseBullets extracts markdown '*' bullets from a model response.
// Lines without a bullet marker are treated as model chatter and
// dropped. At most maxBullets tips are returned.
func ParseBullets(text string) ([]string, error) {
	var bullets []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "*") {
			continue
		}
		tip := strings.TrimSpace(strings.TrimPrefix(line, "*"))
		if tip == "" {
			continue
		}
		bullets = append(bullets, tip)
		if len(bullets) == maxBullets {
			break
		}
	}
	if len(bullets) == 0 {
		return nil, ErrNoInsights
	}
	return bullets, nil
}
