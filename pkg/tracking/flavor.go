package tracking

// Flavor names the model framework a model is logged under
type Flavor string

const (
	// FlavorPyFunc is the generic python-function flavor; it requires a workflow
	FlavorPyFunc Flavor = "pyfunc"
	// FlavorSklearn is the scikit-learn flavor
	FlavorSklearn Flavor = "sklearn"
	// FlavorLightGBM is the LightGBM flavor
	FlavorLightGBM Flavor = "lightgbm"
	// FlavorXGBoost is the XGBoost flavor
	FlavorXGBoost Flavor = "xgboost"
	// FlavorPyTorch is the PyTorch flavor
	FlavorPyTorch Flavor = "pytorch"
	// FlavorTensorflow is the TensorFlow flavor
	FlavorTensorflow Flavor = "tensorflow"
	// FlavorONNX is the ONNX flavor
	FlavorONNX Flavor = "onnx"
)

// Workflow selects how a pyfunc model is reconstructed at load time
type Workflow string

const (
	// WorkflowPythonModel logs a serialized model object
	WorkflowPythonModel Workflow = "python_model"
	// WorkflowLoaderModule logs a loader module reference
	WorkflowLoaderModule Workflow = "loader_module"
)

//nolint:gochecknoglobals // Static registry of supported flavors
var knownFlavors = map[Flavor]struct{}{
	FlavorPyFunc:     {},
	FlavorSklearn:    {},
	FlavorLightGBM:   {},
	FlavorXGBoost:    {},
	FlavorPyTorch:    {},
	FlavorTensorflow: {},
	FlavorONNX:       {},
}

// ValidFlavor reports whether the flavor is supported
func ValidFlavor(flavor Flavor) bool {
	_, ok := knownFlavors[flavor]

	return ok
}

// ValidWorkflow reports whether the workflow is one of the allowed pyfunc workflows
func ValidWorkflow(workflow Workflow) bool {
	return workflow == WorkflowPythonModel || workflow == WorkflowLoaderModule
}
