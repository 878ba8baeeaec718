package domain

import (
	"fmt"
	"strings"
)

// StrategyType names the dimension an adaptive strategy adjusts.
type StrategyType string

const (
	StrategyLearningPace StrategyType = "learning_pace"
	StrategyDifficulty   StrategyType = "difficulty"
	StrategyMotivation   StrategyType = "motivation"
	StrategyEngagement   StrategyType = "engagement"
	StrategySupport      StrategyType = "support"
)

// StrategyTypes lists every valid strategy type in declaration order.
var StrategyTypes = []StrategyType{
	StrategyLearningPace, StrategyDifficulty, StrategyMotivation, StrategyEngagement, StrategySupport,
}

// ParseStrategyType parses a strategy type strictly. There is no default:
// callers drop strategies whose type does not parse.
func ParseStrategyType(value string) (StrategyType, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.NewReplacer("-", "_", " ", "_").Replace(v)
	st := StrategyType(v)
	if err := st.Validate(); err != nil {
		return "", err
	}
	return st, nil
}

// Validate checks if the strategy type is valid
func (st StrategyType) Validate() error {
	for _, known := range StrategyTypes {
		if st == known {
			return nil
		}
	}
	return fmt.Errorf("invalid strategy type %q", string(st))
}

// String returns the string representation
func (st StrategyType) String() string {
	return string(st)
}
