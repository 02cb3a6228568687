package repository

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// scanner は*sql.Rowと*sql.Rowsに共通するScanを表す。
type scanner interface {
	Scan(dest ...any) error
}

// marshalList は埋め込みリストをJSONB用にエンコードする。空のリストは[]として保存する。
func marshalList(v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.Len() == 0 {
		return []byte("[]"), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode embedded list: %w", err)
	}
	return b, nil
}

// unmarshalJSONB はJSONB列をデコードする。NULLや空値は何もしない。
func unmarshalJSONB(data []byte, v any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode embedded document: %w", err)
	}
	return nil
}
