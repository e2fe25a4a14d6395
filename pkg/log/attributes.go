// Package log defines standard attribute keys for binning operations.
//
// These keys follow a hierarchical naming convention (e.g., "model.name",
// "data.samples", "binning.total_iv") to enable structured log analysis and filtering.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of estimator.
	// Examples: "NumericalBinning", "CategoricalBinning"
	ModelNameKey = "model.name"

	// EstimatorIDKey provides a unique identifier for a specific estimator instance.
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "transform", "fit_transform"
	OperationKey = "ml.operation"

	// ComponentKey identifies which component is logging.
	ComponentKey = "ml.component"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples in the input.
	SamplesKey = "data.samples"

	// MissingKey indicates the number of missing samples routed to the missing bin.
	MissingKey = "data.missing"

	// DistinctKey indicates the number of distinct categorical codes observed.
	DistinctKey = "data.distinct"
)

// Binning results
const (
	// PrebinsKey records the number of partitions produced by pre-binning.
	PrebinsKey = "binning.prebins"

	// BinsKey records the number of ordinary (non-missing) bins in the fitted model.
	BinsKey = "binning.bins"

	// MergesKey records how many merge steps the merge engine performed.
	MergesKey = "binning.merges"

	// SplitsKey records how many max_bin_pct re-splits were performed.
	SplitsKey = "binning.splits"

	// TotalIVKey records the total information value of the fitted model.
	TotalIVKey = "binning.total_iv"

	// IVLossKey records the information value lost by a single merge.
	IVLossKey = "binning.iv_loss"

	// PSIKey records a population stability index.
	PSIKey = "binning.psi"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// WorkersKey records the number of parallel workers used.
	WorkersKey = "perf.workers"
)

// Error and Warning Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"
)

// Standard attribute value constants.
const (
	OperationFit          = "fit"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"
	OperationStability    = "stability"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorInvalidInput      = "INVALID_INPUT"
)
