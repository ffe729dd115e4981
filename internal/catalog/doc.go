// Package catalog keeps the registry of OCR models and translation services
// that bunny tasks may name. Services come from three places: the built-in
// entries, an optional YAML file read at startup, and plugins registering at
// runtime through the API. Every change is announced as a
// plugins:bunny_services_updated event carrying the full listing.
package catalog
