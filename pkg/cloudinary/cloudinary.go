package cloudinary

import (
	"strings"

	cld "github.com/cloudinary/cloudinary-go/v2"
)

// Optimized avatar params for fast list rendering.
const avatarTransformation = "q_auto,f_auto,w_200,c_fill"

// Resolver turns stored avatar refs (Cloudinary public IDs) into optimized
// delivery URLs. Refs that are already absolute URLs pass through untouched,
// and any resolution failure falls back to the raw ref rather than erroring.
type Resolver struct {
	client *cld.Cloudinary
}

func NewResolver(cloudName, apiKey, apiSecret string) (*Resolver, error) {
	client, err := cld.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	return &Resolver{client: client}, nil
}

func (r *Resolver) ImageURL(ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	img, err := r.client.Image(ref)
	if err != nil {
		return ref
	}
	img.Transformation = avatarTransformation
	url, err := img.String()
	if err != nil {
		return ref
	}
	return url
}
