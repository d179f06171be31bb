package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"
)

func jsonToMap(j datatypes.JSON) map[string]interface{} {
	if len(j) == 0 {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(j, &m); err != nil {
		return nil
	}
	return m
}

func mapToJSON(m map[string]interface{}) datatypes.JSON {
	if m == nil {
		return nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
