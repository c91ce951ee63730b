package util

import "encoding/json"

// ConvertStructToJson marshals v for queue payloads and update messages.
// Marshal failures return an empty JSON object rather than an error since
// the payloads are plain data structs.
func ConvertStructToJson(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}
