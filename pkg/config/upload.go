package config

type UploadConfig struct {
	AllowedMimeTypes []string
	MaxSizeMB        int64
	PathPrefix       string
}

const UploadProjectImage = "project_image"

var UploadContexts = map[string]UploadConfig{
	UploadProjectImage: {
		AllowedMimeTypes: []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
		MaxSizeMB:        10,
		PathPrefix:       "projects",
	},
}
