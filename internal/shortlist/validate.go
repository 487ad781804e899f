// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package shortlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.yaml.in/yaml/v3"

	"github.com/scholarfinder/shortlist/pkg/types"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every reviewer against the field rules declared on
// types.Reviewer and reports the first offending reviewer by position.
func Validate(reviewers []types.Reviewer) error {
	for i, r := range reviewers {
		if err := validate.Struct(r); err != nil {
			return fmt.Errorf("reviewer %d (%s): %w", i, r.Name, describe(err))
		}
	}
	return nil
}

// describe flattens validator errors into "Field: rule" pairs.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, len(verrs))
	for i, fe := range verrs {
		if fe.Param() != "" {
			parts[i] = fmt.Sprintf("%s fails %s=%s", fe.Field(), fe.Tag(), fe.Param())
		} else {
			parts[i] = fmt.Sprintf("%s fails %s", fe.Field(), fe.Tag())
		}
	}
	return fmt.Errorf("invalid reviewer: %s", strings.Join(parts, ", "))
}

// ReadFile loads a reviewer list from a .json, .yaml, or .yml file and
// validates it.
func ReadFile(path string) ([]types.Reviewer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var reviewers []types.Reviewer
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &reviewers)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &reviewers)
	default:
		return nil, fmt.Errorf("unsupported reviewer file %s: use .json, .yaml, or .yml", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := Validate(reviewers); err != nil {
		return nil, err
	}
	return reviewers, nil
}
