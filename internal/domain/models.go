// File: internal/domain/models.go
package domain

// KnownModels lists the models offered in the UI when the inference
// server cannot be reached for a live listing.
var KnownModels = []string{
	"llama2:7b",
	"llama2:13b",
	"llama2:70b",
	"mistral:7b",
	"codellama:7b",
	"llama2:7b-chat",
	"llama2:13b-chat",
}

// ModelDescriptions maps model names to the short hardware hints shown
// next to them in the model picker.
var ModelDescriptions = map[string]string{
	"llama2:7b":       "Fast, lightweight model (4GB RAM)",
	"llama2:13b":      "Balanced performance (8GB RAM)",
	"llama2:70b":      "Best quality, requires more resources (16GB+ RAM)",
	"mistral:7b":      "Excellent performance/size ratio (4GB RAM)",
	"codellama:7b":    "Specialized for coding tasks (4GB RAM)",
	"llama2:7b-chat":  "Chat-optimized 7B model (4GB RAM)",
	"llama2:13b-chat": "Chat-optimized 13B model (8GB RAM)",
}
