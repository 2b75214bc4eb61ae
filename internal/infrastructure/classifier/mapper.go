package classifier

import (
	"sort"
	"strings"

	"github.com/yatralens/backend/internal/domain"
)

// classifyResponse is the classification server's JSON body.
// MobileNet-style servers name the label field "className".
type classifyResponse struct {
	Model       string          `json:"model,omitempty"`
	Predictions []predictionDTO `json:"predictions"`
}

type predictionDTO struct {
	Label       string  `json:"label,omitempty"`
	ClassName   string  `json:"className,omitempty"`
	Probability float64 `json:"probability"`
}

// mapPredictions converts the wire format to domain predictions, dropping
// unlabeled items, sorting by probability (stable) and truncating to topK
func mapPredictions(resp classifyResponse, topK int) []domain.Prediction {
	out := make([]domain.Prediction, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		label := strings.TrimSpace(p.Label)
		if label == "" {
			label = strings.TrimSpace(p.ClassName)
		}
		if label == "" {
			continue
		}
		out = append(out, domain.Prediction{Label: label, Probability: p.Probability})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Probability > out[j].Probability
	})

	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out
}
