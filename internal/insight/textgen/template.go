package textgen

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/smallbiznis/demandcast/internal/insight/domain"
)

var avgPattern = regexp.MustCompile(`Average daily demand: (-?\d+)`)

// Template is an offline generator. It reads the average back out of the
// prompt and answers with a fixed two-line insight.
type Template struct {
	LowThreshold  int
	HighThreshold int
}

var _ domain.TextGenerator = (*Template)(nil)

func NewTemplate() *Template {
	return &Template{LowThreshold: 5, HighThreshold: 15}
}

func (t *Template) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	match := avgPattern.FindStringSubmatch(prompt)
	if match == nil {
		return "Insight: Demand level could not be determined.\nAction: Review the forecast manually.", nil
	}
	avg, err := strconv.Atoi(match[1])
	if err != nil {
		return "", err
	}

	switch {
	case avg >= t.HighThreshold:
		return fmt.Sprintf("Insight: Demand is strong at about %d units per day.\nAction: Increase stock ahead of the forecast period.", avg), nil
	case avg <= t.LowThreshold:
		return fmt.Sprintf("Insight: Demand is soft at about %d units per day.\nAction: Reduce reorder quantities to avoid overstock.", avg), nil
	default:
		return fmt.Sprintf("Insight: Demand is steady at about %d units per day.\nAction: Keep current stock levels.", avg), nil
	}
}
