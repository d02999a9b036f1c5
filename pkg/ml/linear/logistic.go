// Package linear implements the logistic-regression classifier used by the
// scoring service. Training standardises inputs and mean-imputes missing
// cells so the integrated table can be consumed directly.
package linear

import "math"

type Options struct {
	Epochs       int
	LearningRate float64
}

// Model is the trained artifact: imputation means, standardisation scales
// and the fitted weights, all in feature order.
type Model struct {
	FeatureNames []string  `json:"feature_names"`
	Means        []float64 `json:"means"`
	Scales       []float64 `json:"scales"`
	Bias         float64   `json:"bias"`
	Coefficients []float64 `json:"coefficients"`
}

type Metrics struct {
	Loss     float64
	Accuracy float64
}

// Train fits a logistic regression with batch gradient descent. missing
// marks cells to impute with the per-feature mean of the observed values;
// it may be nil when every cell is present.
func Train(featureNames []string, samples [][]float64, missing [][]bool, labels []float64, opts Options) (Model, Metrics) {
	if opts.Epochs <= 0 {
		opts.Epochs = 500
	}
	if opts.LearningRate <= 0 {
		opts.LearningRate = 0.1
	}

	n := len(samples)
	if n == 0 {
		return Model{FeatureNames: featureNames}, Metrics{}
	}
	featureCount := len(featureNames)

	means, scales := fitScaler(samples, missing, featureCount)
	prepared := make([][]float64, n)
	for i, sample := range samples {
		prepared[i] = transform(sample, rowMask(missing, i), means, scales)
	}

	weights := make([]float64, featureCount)
	var bias float64

	for epoch := 0; epoch < opts.Epochs; epoch++ {
		grad := make([]float64, featureCount)
		var biasGrad float64
		for i, sample := range prepared {
			prediction := sigmoid(dot(weights, sample) + bias)
			err := prediction - labels[i]
			for j := 0; j < featureCount; j++ {
				grad[j] += err * sample[j]
			}
			biasGrad += err
		}
		for j := 0; j < featureCount; j++ {
			weights[j] -= opts.LearningRate * grad[j] / float64(n)
		}
		bias -= opts.LearningRate * biasGrad / float64(n)
	}

	model := Model{
		FeatureNames: featureNames,
		Means:        means,
		Scales:       scales,
		Bias:         bias,
		Coefficients: weights,
	}
	loss, accuracy := evaluate(model, prepared, labels)
	return model, Metrics{Loss: loss, Accuracy: accuracy}
}

// Predict returns the positive-class probability for one raw sample. missing
// may be nil when every cell is present.
func Predict(model Model, sample []float64, missing []bool) float64 {
	prepared := transform(sample, missing, model.Means, model.Scales)
	return sigmoid(dot(model.Coefficients, prepared) + model.Bias)
}

// PredictClass thresholds the probability at 0.5.
func PredictClass(model Model, sample []float64, missing []bool) (int, float64) {
	p := Predict(model, sample, missing)
	if p >= 0.5 {
		return 1, p
	}
	return 0, p
}

func fitScaler(samples [][]float64, missing [][]bool, featureCount int) ([]float64, []float64) {
	means := make([]float64, featureCount)
	scales := make([]float64, featureCount)
	counts := make([]int, featureCount)

	for i, sample := range samples {
		mask := rowMask(missing, i)
		for j := 0; j < featureCount; j++ {
			if mask != nil && mask[j] {
				continue
			}
			means[j] += sample[j]
			counts[j]++
		}
	}
	for j := 0; j < featureCount; j++ {
		if counts[j] > 0 {
			means[j] /= float64(counts[j])
		}
	}

	for i, sample := range samples {
		mask := rowMask(missing, i)
		for j := 0; j < featureCount; j++ {
			if mask != nil && mask[j] {
				continue
			}
			d := sample[j] - means[j]
			scales[j] += d * d
		}
	}
	for j := 0; j < featureCount; j++ {
		if counts[j] > 1 {
			scales[j] = math.Sqrt(scales[j] / float64(counts[j]))
		}
		if scales[j] == 0 {
			scales[j] = 1
		}
	}
	return means, scales
}

func transform(sample []float64, missing []bool, means, scales []float64) []float64 {
	out := make([]float64, len(means))
	for j := range out {
		value := means[j]
		if j < len(sample) && (missing == nil || !missing[j]) {
			value = sample[j]
		}
		out[j] = (value - means[j]) / scales[j]
	}
	return out
}

func rowMask(missing [][]bool, i int) []bool {
	if missing == nil || i >= len(missing) {
		return nil
	}
	return missing[i]
}

func dot(weights []float64, sample []float64) float64 {
	var sum float64
	for i := 0; i < len(weights); i++ {
		sum += weights[i] * sample[i]
	}
	return sum
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func evaluate(model Model, prepared [][]float64, labels []float64) (float64, float64) {
	var loss float64
	var correct int
	for i, sample := range prepared {
		prediction := sigmoid(dot(model.Coefficients, sample) + model.Bias)
		loss += -labels[i]*math.Log(prediction+1e-9) - (1-labels[i])*math.Log(1-prediction+1e-9)
		if (prediction >= 0.5 && labels[i] == 1) || (prediction < 0.5 && labels[i] == 0) {
			correct++
		}
	}
	loss /= float64(len(prepared))
	accuracy := float64(correct) / float64(len(prepared))
	return loss, accuracy
}
