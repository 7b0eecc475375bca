// Package scheme reads partitioning scheme descriptions and turns them
// into the per-subset vectors package score works on.
package scheme

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/op/go-logging"
	"gopkg.in/yaml.v3"

	"github.com/Dilshan-Pathirana/Partition-Finder-2.1.1/models"
	"github.com/Dilshan-Pathirana/Partition-Finder-2.1.1/subsetdb"
)

var log = logging.MustGetLogger("scheme")

var validate = validator.New()

// ErrInvalidScheme is wrapped by all the scheme validation errors.
var ErrInvalidScheme = errors.New("scheme: invalid scheme")

// Format is a scheme file format.
type Format int

const (
	JSON Format = iota
	YAML
)

// FormatFromFileName guesses the format from the file extension.
func FormatFromFileName(fn string) (Format, error) {
	switch strings.ToLower(filepath.Ext(fn)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return JSON, fmt.Errorf("scheme: unknown file extension: %s", fn)
}

// Subset is one element of a scheme. ParamCount may be left out if
// Model is known; ParamCount and LogLikelihood may both be left out if
// the subset is in the subset database.
type Subset struct {
	Name          string   `json:"name" yaml:"name" validate:"required"`
	Model         string   `json:"model,omitempty" yaml:"model,omitempty"`
	ParamCount    *float64 `json:"param_count,omitempty" yaml:"param_count,omitempty" validate:"omitempty,gte=0"`
	LogLikelihood *float64 `json:"log_likelihood,omitempty" yaml:"log_likelihood,omitempty"`
	SiteCount     int      `json:"site_count" yaml:"site_count" validate:"gte=0"`
}

// Scheme is a partitioning scheme with the fit of all its subsets.
type Scheme struct {
	Name string `json:"name" yaml:"name" validate:"required"`
	// NumTaxa overrides the number of taxa given on the command line.
	NumTaxa int      `json:"num_taxa,omitempty" yaml:"num_taxa,omitempty" validate:"gte=0"`
	Subsets []Subset `json:"subsets" yaml:"subsets" validate:"required,min=1,dive"`
}

// Read decodes a scheme in the given format and validates it. Unknown
// fields are errors.
func Read(rd io.Reader, format Format) (*Scheme, error) {
	s, err := decode(rd, format)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ReadFile reads a scheme file, the format is chosen by the file
// extension. A scheme without a name is named after the file.
func ReadFile(fn string) (*Scheme, error) {
	format, err := FormatFromFileName(fn)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(fn), filepath.Ext(fn))
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	log.Debugf("Read scheme %s with %d subsets from %s", s.Name, len(s.Subsets), fn)
	return s, nil
}

func decode(rd io.Reader, format Format) (*Scheme, error) {
	s := &Scheme{}
	switch format {
	case JSON:
		dec := json.NewDecoder(rd)
		dec.DisallowUnknownFields()
		if err := dec.Decode(s); err != nil {
			return nil, fmt.Errorf("scheme: decoding json: %w", err)
		}
	case YAML:
		dec := yaml.NewDecoder(rd)
		dec.KnownFields(true)
		if err := dec.Decode(s); err != nil {
			return nil, fmt.Errorf("scheme: decoding yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("scheme: unknown format %d", format)
	}
	return s, nil
}

// Validate checks the struct constraints and that subset names are
// unique.
func (s *Scheme) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScheme, err)
	}
	seen := make(map[string]bool, len(s.Subsets))
	for _, sub := range s.Subsets {
		if seen[sub.Name] {
			return fmt.Errorf("%w: duplicate subset %s", ErrInvalidScheme, sub.Name)
		}
		seen[sub.Name] = true
	}
	return nil
}

// Source looks up cached subset results.
type Source interface {
	Get(name string) (*subsetdb.Record, error)
}

// Fill completes the subsets lacking a parameter count or a log
// likelihood from src. It returns the number of subsets filled.
func (s *Scheme) Fill(src Source) (n int, err error) {
	for i := range s.Subsets {
		sub := &s.Subsets[i]
		if sub.ParamCount != nil && sub.LogLikelihood != nil {
			continue
		}
		r, err := src.Get(sub.Name)
		if errors.Is(err, subsetdb.ErrNotFound) {
			continue
		}
		if err != nil {
			return n, err
		}
		if sub.ParamCount == nil {
			k := r.ParamCount
			sub.ParamCount = &k
		}
		if sub.LogLikelihood == nil {
			lnL := r.LogLikelihood
			sub.LogLikelihood = &lnL
		}
		if sub.Model == "" {
			sub.Model = r.Model
		}
		if sub.SiteCount == 0 {
			sub.SiteCount = r.SiteCount
		}
		n++
	}
	if n > 0 {
		log.Infof("Scheme %s: %d subset(s) taken from the subset database", s.Name, n)
	}
	return n, nil
}

// Records returns the subsets that have complete results, ready to be
// cached.
func (s *Scheme) Records(table models.Table) []*subsetdb.Record {
	var records []*subsetdb.Record
	for _, sub := range s.Subsets {
		if sub.LogLikelihood == nil {
			continue
		}
		k, err := sub.paramCount(table)
		if err != nil {
			continue
		}
		records = append(records, &subsetdb.Record{
			Name:          sub.Name,
			Model:         sub.Model,
			ParamCount:    k,
			LogLikelihood: *sub.LogLikelihood,
			SiteCount:     sub.SiteCount,
		})
	}
	return records
}

func (sub *Subset) paramCount(table models.Table) (float64, error) {
	if sub.ParamCount != nil {
		return *sub.ParamCount, nil
	}
	if sub.Model == "" {
		return 0, fmt.Errorf("%w: subset %s has neither a parameter count nor a model",
			ErrInvalidScheme, sub.Name)
	}
	k, err := table.NumParams(sub.Model)
	if err != nil {
		return 0, fmt.Errorf("subset %s: %w", sub.Name, err)
	}
	return float64(k), nil
}

// Vectors returns the parallel parameter count, log likelihood and site
// count slices. Parameter counts missing from the scheme are taken from
// table.
func (s *Scheme) Vectors(table models.Table) (params, lnLs []float64, sites []int, err error) {
	n := len(s.Subsets)
	params = make([]float64, n)
	lnLs = make([]float64, n)
	sites = make([]int, n)
	for i := range s.Subsets {
		sub := &s.Subsets[i]
		if sub.LogLikelihood == nil {
			return nil, nil, nil, fmt.Errorf("%w: subset %s has no log likelihood",
				ErrInvalidScheme, sub.Name)
		}
		if params[i], err = sub.paramCount(table); err != nil {
			return nil, nil, nil, err
		}
		lnLs[i] = *sub.LogLikelihood
		sites[i] = sub.SiteCount
	}
	return params, lnLs, sites, nil
}
