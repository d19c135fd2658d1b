package kaggle

import (
	"fmt"
	"strings"
)

// Ref identifies a resource owned by a user or organization,
// e.g. "owner/dataset-name".
type Ref struct {
	Owner string
	Slug  string
}

// InstanceRef identifies a model instance,
// e.g. "owner/model/framework/instance-slug".
type InstanceRef struct {
	Owner     string
	Model     string
	Framework string
	Slug      string
}

// InstanceVersionRef identifies a model instance version,
// e.g. "owner/model/framework/instance-slug/1".
type InstanceVersionRef struct {
	InstanceRef
	Version string
}

// ParseRef splits an "owner/slug" identifier.
func ParseRef(ref string) (Ref, error) {
	parts := strings.Split(ref, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Ref{}, fmt.Errorf("identifier %q must be in the form 'owner/slug'", ref)
	}
	return Ref{Owner: parts[0], Slug: parts[1]}, nil
}

// ParseInstanceRef splits an "owner/model/framework/instance-slug" identifier.
func ParseInstanceRef(ref string) (InstanceRef, error) {
	parts := strings.Split(ref, "/")
	if len(parts) != 4 {
		return InstanceRef{}, fmt.Errorf("identifier %q must be in the form 'owner/model/framework/instance-slug'", ref)
	}
	for _, p := range parts {
		if p == "" {
			return InstanceRef{}, fmt.Errorf("identifier %q must be in the form 'owner/model/framework/instance-slug'", ref)
		}
	}
	return InstanceRef{Owner: parts[0], Model: parts[1], Framework: parts[2], Slug: parts[3]}, nil
}

// ParseInstanceVersionRef splits an
// "owner/model/framework/instance-slug/version-number" identifier.
func ParseInstanceVersionRef(ref string) (InstanceVersionRef, error) {
	parts := strings.Split(ref, "/")
	if len(parts) != 5 {
		return InstanceVersionRef{}, fmt.Errorf("identifier %q must be in the form 'owner/model/framework/instance-slug/version-number'", ref)
	}
	for _, p := range parts {
		if p == "" {
			return InstanceVersionRef{}, fmt.Errorf("identifier %q must be in the form 'owner/model/framework/instance-slug/version-number'", ref)
		}
	}
	return InstanceVersionRef{
		InstanceRef: InstanceRef{Owner: parts[0], Model: parts[1], Framework: parts[2], Slug: parts[3]},
		Version:     parts[4],
	}, nil
}
