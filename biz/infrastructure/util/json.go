package util

import (
	"encoding/json"
	"homework-wall/biz/infrastructure/util/log"
)

// JSONF 将对象序列化为字符串，用于日志输出
func JSONF(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error("JSONF fail, v=%v, err=%v", v, err)
	}
	return string(data)
}
