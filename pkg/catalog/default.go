package catalog

import "strings"

// rankedBiomarkers is the externally curated feature ranking (most important
// first). The top canonicalSize entries form the canonical feature set.
// Signal features carry the accelerometry extractor's ACC__ naming.
var rankedBiomarkers = []string{
	`ASRS`,
	`Percent Perseverations`,
	`Raw Score Commissions`,
	`WURS`,
	`Raw Score VarSE`,
	`ACC__fft_coefficient__attr_"real"__coeff_84`,
	`Raw Score HitRTIsi`,
	`Neuro Confidence Index`,
	`Percent Commissions`,
	`Raw Score HitSE`,
	`ACC__fft_coefficient__attr_"abs"__coeff_22`,
	`ACC__fft_coefficient__attr_"real"__coeff_57`,
	`Raw Score Perseverations`,
	`ACC__fft_coefficient__attr_"abs"__coeff_84`,
	`ACC__fft_coefficient__attr_"real"__coeff_60`,
	`ACC__fft_coefficient__attr_"imag"__coeff_30`,
	`ACC__fft_coefficient__attr_"real"__coeff_56`,
	`ACC__fft_coefficient__attr_"imag"__coeff_52`,
	`Adhd Confidence Index`,
	`Old Overall Index`,
	`ACC__fft_coefficient__attr_"real"__coeff_81`,
	`Percent Omissions`,
	`ACC__fft_coefficient__attr_"angle"__coeff_88`,
	`ACC__fft_coefficient__attr_"angle"__coeff_57`,
	`ACC__fft_coefficient__attr_"real"__coeff_5`,
	`ACC__fft_coefficient__attr_"imag"__coeff_47`,
	`ACC__fft_coefficient__attr_"real"__coeff_51`,
	`ACC__fft_coefficient__attr_"imag"__coeff_22`,
	`ACC__fft_coefficient__attr_"real"__coeff_99`,
	`ACC__fft_coefficient__attr_"real"__coeff_39`,
	`ACC__fft_coefficient__attr_"imag"__coeff_88`,
	`ACC__fft_coefficient__attr_"real"__coeff_53`,
	`ACC__fft_coefficient__attr_"angle"__coeff_28`,
	`ACC__fft_coefficient__attr_"real"__coeff_20`,
	`Raw Score Omissions`,
	`ACC__fft_coefficient__attr_"real"__coeff_41`,
	`ACC__fft_coefficient__attr_"angle"__coeff_70`,
	`ACC__fft_coefficient__attr_"angle"__coeff_74`,
	`ACC__fft_coefficient__attr_"imag"__coeff_28`,
	`ACC__fft_coefficient__attr_"abs"__coeff_70`,
	`ACC__fft_coefficient__attr_"imag"__coeff_62`,
	`ACC__fft_coefficient__attr_"abs"__coeff_15`,
	`ACC__fft_coefficient__attr_"angle"__coeff_84`,
	`ACC__fft_coefficient__attr_"real"__coeff_58`,
	`ACC__change_quantiles__f_agg_"mean"__isabs_False__qh_0.8__ql_0.6`,
	`ACC__fft_coefficient__attr_"imag"__coeff_36`,
	`ACC__cwt_coefficients__coeff_3__w_2__widths_(2, 5, 10, 20)`,
	`ACC__fft_coefficient__attr_"imag"__coeff_74`,
	`ACC__fft_coefficient__attr_"real"__coeff_28`,
	`Raw Score DPrime`,
	`ACC__fft_coefficient__attr_"imag"__coeff_97`,
	`ACC__fft_coefficient__attr_"real"__coeff_55`,
	`ACC__fft_coefficient__attr_"angle"__coeff_20`,
	`ACC__ratio_value_number_to_time_series_length`,
	`ACC__fft_coefficient__attr_"abs"__coeff_33`,
	`ACC__fft_coefficient__attr_"angle"__coeff_97`,
	`ACC__fft_coefficient__attr_"imag"__coeff_38`,
	`ACC__fft_coefficient__attr_"imag"__coeff_91`,
	`Raw Score Beta`,
	`ACC__fft_coefficient__attr_"real"__coeff_61`,
	`ACC__fft_coefficient__attr_"real"__coeff_21`,
	`ACC__fft_coefficient__attr_"angle"__coeff_56`,
	`ACC__fft_coefficient__attr_"imag"__coeff_80`,
	`ACC__change_quantiles__f_agg_"mean"__isabs_True__qh_1.0__ql_0.8`,
	`ACC__fft_coefficient__attr_"abs"__coeff_40`,
	`ACC__lempel_ziv_complexity__bins_100`,
	`ACC__fft_coefficient__attr_"angle"__coeff_38`,
	`ACC__fft_coefficient__attr_"imag"__coeff_20`,
	`ACC__linear_trend__attr_"stderr"`,
	`ACC__fft_coefficient__attr_"imag"__coeff_77`,
	`ACC__fft_coefficient__attr_"angle"__coeff_30`,
	`ACC__fft_coefficient__attr_"abs"__coeff_77`,
	`ACC__fft_coefficient__attr_"angle"__coeff_62`,
	`ACC__fft_coefficient__attr_"real"__coeff_49`,
	`ACC__fft_coefficient__attr_"abs"__coeff_39`,
	`ACC__permutation_entropy__dimension_4__tau_1`,
	`ACC__fft_coefficient__attr_"abs"__coeff_29`,
	`ACC__fft_coefficient__attr_"angle"__coeff_75`,
	`ACC__fft_coefficient__attr_"abs"__coeff_12`,
	`ACC__fft_coefficient__attr_"real"__coeff_43`,
	`ACC__fft_coefficient__attr_"real"__coeff_25`,
	`ACC__fft_coefficient__attr_"real"__coeff_77`,
	`Raw Score HitRTBlock`,
	`ACC__fft_coefficient__attr_"abs"__coeff_28`,
	`ACC__cwt_coefficients__coeff_2__w_2__widths_(2, 5, 10, 20)`,
	`ACC__fft_coefficient__attr_"angle"__coeff_19`,
	`ACC__fft_coefficient__attr_"angle"__coeff_5`,
	`ACC__agg_linear_trend__attr_"stderr"__chunk_len_5__f_agg_"mean"`,
	`ACC__cwt_coefficients__coeff_3__w_5__widths_(2, 5, 10, 20)`,
	`ACC__fft_coefficient__attr_"abs"__coeff_93`,
	`ACC__number_peaks__n_50`,
	`ACC__permutation_entropy__dimension_5__tau_1`,
	`ACC__lempel_ziv_complexity__bins_10`,
	`ACC__cwt_coefficients__coeff_1__w_5__widths_(2, 5, 10, 20)`,
	`ACC__fft_coefficient__attr_"real"__coeff_24`,
	`ACC__fft_coefficient__attr_"angle"__coeff_21`,
	`ACC__agg_linear_trend__attr_"stderr"__chunk_len_10__f_agg_"min"`,
	`ACC__fft_coefficient__attr_"real"__coeff_19`,
	`ACC__fft_coefficient__attr_"real"__coeff_22`,
	`ACC__fft_coefficient__attr_"abs"__coeff_83`,
	`ACC__cwt_coefficients__coeff_2__w_5__widths_(2, 5, 10, 20)`,
	`ACC__cwt_coefficients__coeff_6__w_2__widths_(2, 5, 10, 20)`,
	`ACC__fft_coefficient__attr_"angle"__coeff_49`,
	`ACC__agg_linear_trend__attr_"stderr"__chunk_len_10__f_agg_"max"`,
	`ACC__fft_coefficient__attr_"real"__coeff_79`,
	`ACC__fft_coefficient__attr_"abs"__coeff_76`,
	`ACC__fft_coefficient__attr_"real"__coeff_36`,
	`ACC__fft_coefficient__attr_"imag"__coeff_60`,
	`ACC__fft_coefficient__attr_"real"__coeff_63`,
	`ACC__fft_coefficient__attr_"angle"__coeff_26`,
	`ACC__fft_coefficient__attr_"angle"__coeff_81`,
	`ACC__number_cwt_peaks__n_1`,
	`ACC__fft_coefficient__attr_"imag"__coeff_72`,
	`ACC__number_cwt_peaks__n_5`,
	`ACC__fft_coefficient__attr_"real"__coeff_78`,
	`ACC__fft_coefficient__attr_"abs"__coeff_97`,
	`ACC__partial_autocorrelation__lag_9`,
	`ACC__value_count__value_0`,
	`ACC__fft_coefficient__attr_"real"__coeff_38`,
	`ACC__energy_ratio_by_chunks__num_segments_10__segment_focus_9`,
	`ACC__fft_coefficient__attr_"imag"__coeff_24`,
	`ACC__fft_coefficient__attr_"real"__coeff_64`,
	`ACC__fft_coefficient__attr_"real"__coeff_97`,
	`ACC__fft_coefficient__attr_"angle"__coeff_78`,
	`ACC__fft_coefficient__attr_"real"__coeff_88`,
	`ACC__agg_linear_trend__attr_"stderr"__chunk_len_50__f_agg_"max"`,
	`ACC__mean_second_derivative_central`,
	`ACC__count_above_mean`,
	`ACC__agg_linear_trend__attr_"stderr"__chunk_len_10__f_agg_"mean"`,
	`ACC__fft_coefficient__attr_"angle"__coeff_87`,
	`Raw Score HitSEBlock`,
	`ACC__fft_coefficient__attr_"abs"__coeff_35`,
	`ACC__change_quantiles__f_agg_"var"__isabs_True__qh_1.0__ql_0.6`,
	`ACC__lempel_ziv_complexity__bins_5`,
	`ACC__range_count__max_1000000000000.0__min_0`,
	`ACC__first_location_of_maximum`,
	`ACC__change_quantiles__f_agg_"mean"__isabs_False__qh_1.0__ql_0.8`,
	`ACC__fft_coefficient__attr_"imag"__coeff_42`,
	`ACC__fft_coefficient__attr_"real"__coeff_29`,
	`ACC__fft_coefficient__attr_"real"__coeff_13`,
	`ACC__number_peaks__n_10`,
	`ACC__fft_coefficient__attr_"real"__coeff_3`,
	`ACC__partial_autocorrelation__lag_2`,
	`ACC__fft_coefficient__attr_"imag"__coeff_43`,
	`ACC__permutation_entropy__dimension_3__tau_1`,
	`ACC__fourier_entropy__bins_100`,
	`ACC__fft_coefficient__attr_"real"__coeff_96`,
	`ACC__fft_coefficient__attr_"abs"__coeff_42`,
	`ACC__fft_coefficient__attr_"angle"__coeff_41`,
	`ACC__fft_coefficient__attr_"real"__coeff_71`,
}

const (
	defaultCanonicalSize = 75

	defaultIdentifier    = "ID"
	defaultLabel         = "ADHD"
	defaultInclusionFlag = "filter_$"

	signalFeaturePrefix = "ACC__"
)

// Questionnaire scores live on the clinical source; everything else without
// the signal prefix comes from the performance-test battery.
var clinicalFeatures = map[string]struct{}{
	`ASRS`: {},
	`WURS`: {},
}

func Default() Catalog {
	features := make([]string, len(rankedBiomarkers))
	copy(features, rankedBiomarkers)

	var clinical, performance, signal []string
	for _, name := range features[:defaultCanonicalSize] {
		switch {
		case strings.HasPrefix(name, signalFeaturePrefix):
			signal = append(signal, name)
		default:
			if _, ok := clinicalFeatures[name]; ok {
				clinical = append(clinical, name)
			} else {
				performance = append(performance, name)
			}
		}
	}

	return Catalog{
		Version:       "2024.1",
		Identifier:    defaultIdentifier,
		Label:         defaultLabel,
		InclusionFlag: defaultInclusionFlag,
		CanonicalSize: defaultCanonicalSize,
		Features:      features,
		Sources: []Source{
			{Name: SourceClinical, Provides: clinical, HasLabel: true, HasInclusionFlag: true},
			{Name: SourcePerformance, Provides: performance},
			{Name: SourceSignal, Provides: signal},
		},
	}
}
