// internal/integrity/policy.go
package integrity

// Policy holds every threshold and penalty the scorer applies.
// Durations are in seconds, rates in [0,1], percentages in [0,100].
type Policy struct {
	StartingScore int `mapstructure:"starting_score" json:"startingScore"`

	FrostyMaxSeconds          int64 `mapstructure:"frosty_max_seconds" json:"frostyMaxSeconds"`
	CriticalProteinMaxSeconds int64 `mapstructure:"critical_protein_max_seconds" json:"criticalProteinMaxSeconds"`
	SubListTooFastPenalty     int   `mapstructure:"sublist_too_fast_penalty" json:"subListTooFastPenalty"`
	SubListFailThreshold      int   `mapstructure:"sublist_fail_threshold" json:"subListFailThreshold"`
	SubListFailPenalty        int   `mapstructure:"sublist_fail_penalty" json:"subListFailPenalty"`

	Daypart1MinListSeconds int64 `mapstructure:"daypart1_min_list_seconds" json:"daypart1MinListSeconds"`
	DefaultMinListSeconds  int64 `mapstructure:"default_min_list_seconds" json:"defaultMinListSeconds"`
	FastListMinItems       int   `mapstructure:"fast_list_min_items" json:"fastListMinItems"`
	FastListPenalty        int   `mapstructure:"fast_list_penalty" json:"fastListPenalty"`

	RapidGapSeconds       int64   `mapstructure:"rapid_gap_seconds" json:"rapidGapSeconds"`
	SpeedDetectionPercent float64 `mapstructure:"speed_detection_percent" json:"speedDetectionPercent"`
	SpeedDetectionPenalty int     `mapstructure:"speed_detection_penalty" json:"speedDetectionPenalty"`
	RapidEntryPercent     float64 `mapstructure:"rapid_entry_percent" json:"rapidEntryPercent"`
	RapidEntryPenalty     int     `mapstructure:"rapid_entry_penalty" json:"rapidEntryPenalty"`

	IntegerRatio              float64 `mapstructure:"integer_ratio" json:"integerRatio"`
	IntegerPenalty            int     `mapstructure:"integer_penalty" json:"integerPenalty"`
	RelaxedDuplicateRate      float64 `mapstructure:"relaxed_duplicate_rate" json:"relaxedDuplicateRate"`
	StrictDuplicateRate       float64 `mapstructure:"strict_duplicate_rate" json:"strictDuplicateRate"`
	DuplicatePenalty          int     `mapstructure:"duplicate_penalty" json:"duplicatePenalty"`
	IdenticalPenalty          int     `mapstructure:"identical_penalty" json:"identicalPenalty"`
	SimilarPairSeconds        int64   `mapstructure:"similar_pair_seconds" json:"similarPairSeconds"`
	RelaxedSimilarDelta       float64 `mapstructure:"relaxed_similar_delta" json:"relaxedSimilarDelta"`
	StrictSimilarDelta        float64 `mapstructure:"strict_similar_delta" json:"strictSimilarDelta"`
	SimilarRate               float64 `mapstructure:"similar_rate" json:"similarRate"`
	SimilarPenalty            int     `mapstructure:"similar_penalty" json:"similarPenalty"`
	SmallSampleSize           int     `mapstructure:"small_sample_size" json:"smallSampleSize"`
	SmallSampleSimilarPenalty int     `mapstructure:"small_sample_similar_penalty" json:"smallSampleSimilarPenalty"`

	ExcessiveNAPercent float64 `mapstructure:"excessive_na_percent" json:"excessiveNaPercent"`
	ExcessiveNAPenalty int     `mapstructure:"excessive_na_penalty" json:"excessiveNaPenalty"`
	HighNAPercent      float64 `mapstructure:"high_na_percent" json:"highNaPercent"`
	HighNAPenalty      int     `mapstructure:"high_na_penalty" json:"highNaPenalty"`

	ColdHoldingMax float64 `mapstructure:"cold_holding_max" json:"coldHoldingMax"`
	HotHoldingMin  float64 `mapstructure:"hot_holding_min" json:"hotHoldingMin"`
	ExpiryWarnDays int     `mapstructure:"expiry_warn_days" json:"expiryWarnDays"`

	BandMediumMin int `mapstructure:"band_medium_min" json:"bandMediumMin"`
	BandHighMin   int `mapstructure:"band_high_min" json:"bandHighMin"`
}

// DefaultPolicy returns the production thresholds.
func DefaultPolicy() Policy {
	return Policy{
		StartingScore: 100,

		FrostyMaxSeconds:          15,
		CriticalProteinMaxSeconds: 25,
		SubListTooFastPenalty:     40,
		SubListFailThreshold:      60,
		SubListFailPenalty:        40,

		Daypart1MinListSeconds: 180,
		DefaultMinListSeconds:  300,
		FastListMinItems:       10,
		FastListPenalty:        20,

		RapidGapSeconds:       2,
		SpeedDetectionPercent: 75,
		SpeedDetectionPenalty: 30,
		RapidEntryPercent:     45,
		RapidEntryPenalty:     10,

		IntegerRatio:              0.6,
		IntegerPenalty:            30,
		RelaxedDuplicateRate:      0.65,
		StrictDuplicateRate:       0.3,
		DuplicatePenalty:          40,
		IdenticalPenalty:          60,
		SimilarPairSeconds:        45,
		RelaxedSimilarDelta:       0.1,
		StrictSimilarDelta:        0.5,
		SimilarRate:               0.5,
		SimilarPenalty:            50,
		SmallSampleSize:           5,
		SmallSampleSimilarPenalty: 30,

		ExcessiveNAPercent: 50,
		ExcessiveNAPenalty: 50,
		HighNAPercent:      30,
		HighNAPenalty:      25,

		ColdHoldingMax: 50,
		HotHoldingMin:  130,
		ExpiryWarnDays: 7,

		BandMediumMin: 60,
		BandHighMin:   85,
	}
}
