package config

// SampleConfig returns a fully documented configuration file
func SampleConfig() string {
	return `# DocSum configuration
version: "1.0"

backend:
  # Base address of the document analysis service (required).
  # Can also be set with DOCSUM_BACKEND_URL or --backend-url.
  base_url: "http://localhost:8000"
  # Transport timeout for every request, 0 disables it
  timeout: 120s
  # Accept self-signed certificates
  insecure_skip_verify: false

output:
  # text, json, markdown or csv
  default_format: text
  # auto, always or never
  color_mode: auto
  verbose: false
  # Visible characters of log request/response cells
  truncate_width: 40
  # Diagnostic log written while the interactive view is running
  log_file: ~/.cache/docsum/docsum.log

ui:
  # default, high-contrast or minimal
  theme: default
`
}

// MinimalSampleConfig returns a configuration with only essential settings
func MinimalSampleConfig() string {
	return `version: "1.0"
backend:
  base_url: "http://localhost:8000"
`
}
