package remote_api

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/domain"
)

// Shape tags which response layout the remote used. Older deployments wrap or
// rename fields; everything is normalized here so callers never probe.
type Shape string

const (
	ShapeCanonical Shape = "canonical"
	ShapeLegacy    Shape = "legacy"
)

var errMissingField = errors.New("expected field missing from response")

type loginResponse struct {
	Token string `json:"token"`
	Data  *struct {
		Token string `json:"token"`
	} `json:"data"`
}

// decodeLogin accepts {token} and legacy {data:{token}}.
func decodeLogin(body []byte) (string, Shape, error) {
	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", "", fmt.Errorf("decode login response: %w", err)
	}
	switch {
	case resp.Token != "":
		return resp.Token, ShapeCanonical, nil
	case resp.Data != nil && resp.Data.Token != "":
		return resp.Data.Token, ShapeLegacy, nil
	}
	return "", "", fmt.Errorf("token: %w", errMissingField)
}

type countResponse struct {
	Pagination *struct {
		Total *int64 `json:"total"`
	} `json:"pagination"`
	Total *int64 `json:"total"`
}

// decodeCount accepts {pagination:{total}} and legacy {total}.
func decodeCount(body []byte) (int64, Shape, error) {
	var resp countResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, "", fmt.Errorf("decode count response: %w", err)
	}
	switch {
	case resp.Pagination != nil && resp.Pagination.Total != nil:
		return *resp.Pagination.Total, ShapeCanonical, nil
	case resp.Total != nil:
		return *resp.Total, ShapeLegacy, nil
	}
	return 0, "", fmt.Errorf("total: %w", errMissingField)
}

type searchResponse struct {
	Items    []domain.RemoteRecord `json:"items"`
	Products []domain.RemoteRecord `json:"products"`
	Data     json.RawMessage       `json:"data"`
}

// decodeSearch accepts {items:[]} and legacy {products:[]} or {data:[]}.
func decodeSearch(body []byte) ([]domain.RemoteRecord, Shape, error) {
	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, "", fmt.Errorf("decode search response: %w", err)
	}
	switch {
	case resp.Items != nil:
		return resp.Items, ShapeCanonical, nil
	case resp.Products != nil:
		return resp.Products, ShapeLegacy, nil
	case len(resp.Data) > 0 && resp.Data[0] == '[':
		var records []domain.RemoteRecord
		if err := json.Unmarshal(resp.Data, &records); err != nil {
			return nil, "", fmt.Errorf("decode search data: %w", err)
		}
		return records, ShapeLegacy, nil
	}
	return nil, "", fmt.Errorf("items: %w", errMissingField)
}

type importResponse struct {
	Success  bool   `json:"success"`
	Imported *int64 `json:"imported"`
}

func decodeImport(body []byte) (domain.ImportReply, error) {
	if len(body) == 0 {
		return domain.ImportReply{Success: true}, nil
	}
	var resp importResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.ImportReply{}, fmt.Errorf("decode import response: %w", err)
	}
	return domain.ImportReply{Success: resp.Success, Imported: resp.Imported}, nil
}
