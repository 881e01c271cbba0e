package drop

import "fmt"

// Stage is a stretch of play: a luck level held over a number of kills.
type Stage struct {
	Name           string `json:"name" yaml:"name"`
	Level          int    `json:"level" yaml:"level"`
	EnemiesPerWave int    `json:"enemies_per_wave" yaml:"enemies_per_wave"`
	Waves          int    `json:"waves" yaml:"waves"`
}

// Trials is the number of kills in the stage.
func (s Stage) Trials() int { return s.EnemiesPerWave * s.Waves }

// Validate rejects negative sizes.
func (s Stage) Validate() error {
	if s.EnemiesPerWave < 0 || s.Waves < 0 {
		return fmt.Errorf("stage %q: %w", s.Name, ErrInvalidTrials)
	}
	return nil
}

// ReferenceStages are the early/mid/late/final stages of a typical run.
func ReferenceStages() []Stage {
	return []Stage{
		{Name: "early", Level: 3, EnemiesPerWave: 10, Waves: 5},
		{Name: "mid", Level: 10, EnemiesPerWave: 15, Waves: 10},
		{Name: "late", Level: 20, EnemiesPerWave: 20, Waves: 15},
		{Name: "final", Level: 30, EnemiesPerWave: 25, Waves: 20},
	}
}

// Outlook summarizes a projection held over a number of kills.
type Outlook struct {
	Trials        int                `json:"trials"`
	ExpectedTotal float64            `json:"expected_total"`
	ExpectedItems map[string]float64 `json:"expected_items"`
	// AtLeastOne is 1 when the projection is Exceeded.
	AtLeastOne float64 `json:"at_least_one"`
	Exceeded   bool    `json:"exceeded"`
}

// Over computes expected drops and the at-least-one chance across trials kills.
func Over(p Projection, trials int) (Outlook, error) {
	if trials < 0 {
		return Outlook{}, ErrInvalidTrials
	}
	o := Outlook{
		Trials:        trials,
		ExpectedItems: make(map[string]float64, len(p.Rates)),
		Exceeded:      p.Exceeded,
	}
	for name, r := range p.Rates {
		ev, err := ExpectedValue(r, trials)
		if err != nil {
			return Outlook{}, fmt.Errorf("item %q: %w", name, err)
		}
		o.ExpectedItems[name] = ev
	}
	ev, err := ExpectedValue(p.TotalRate, trials)
	if err != nil {
		return Outlook{}, err
	}
	o.ExpectedTotal = ev

	if p.Exceeded {
		o.AtLeastOne = 1
		return o, nil
	}
	alo, err := AtLeastOne(p.TotalRate, trials)
	if err != nil {
		return Outlook{}, err
	}
	o.AtLeastOne = alo
	return o, nil
}
