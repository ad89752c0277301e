package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator type, e.g. "EM", "NaiveBayesGaussian".
	ModelNameKey = "model.name"

	// EstimatorIDKey is a per-instance identifier (a UUID).
	EstimatorIDKey = "estimator.id"

	// OperationKey is one of the Operation* values below.
	OperationKey = "ml.operation"

	// ComponentKey identifies the package or named logger.
	ComponentKey = "ml.component"

	// PhaseKey indicates the lifecycle phase.
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
	ClassesKey  = "data.classes"
	FeatureKey  = "data.feature"
	ClassKey    = "data.class"
)

// Training progress and metrics.
const (
	DurationMsKey = "perf.duration_ms"
	AccuracyKey   = "metrics.accuracy"
	LossKey       = "metrics.loss"
	IterationKey  = "training.iteration"
	ConvergedKey  = "training.converged"
	FoldKey       = "cv.fold"
	FoldsKey      = "cv.folds"
)

// Output artifacts.
const (
	OutputPathKey = "output.path"
)

// Hyperparameters.
const (
	LearningRateKey = "hyperparams.learning_rate"
	ToleranceKey    = "hyperparams.eps"
	MaxIterKey      = "hyperparams.n_iter"
	ComponentsKey   = "hyperparams.k"
	RandomSeedKey   = "config.random_seed"
)

// Error context.
const (
	ErrorCodeKey  = "error.code"
	ErrorTypeKey  = "error.type"
	SuggestionKey = "error.suggestion"
)

// Standard attribute values.
const (
	OperationFit      = "fit"
	OperationPredict  = "predict"
	OperationScore    = "score"
	OperationValidate = "cross_validate"
	OperationEvaluate = "evaluate"
	OperationSelect   = "feature_selection"

	PhaseTraining   = "training"
	PhaseValidation = "validation"
	PhaseTesting    = "testing"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorConvergence       = "CONVERGENCE_FAILURE"
	ErrorDegenerate        = "DEGENERATE_MODEL"
)
