package storage

import (
	"fmt"
	"homework-wall/biz/infrastructure/consts"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// NewObjectKey 生成 homeworks/<毫秒时间戳>_<随机串>_<文件名>，同名文件并发上传也不会冲突
func NewObjectKey(fileName string, now time.Time) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s/%d_%s_%s", consts.ObjectKeyPrefix, now.UnixMilli(), token, sanitizeFileName(fileName))
}

func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if cleaned == "" || cleaned == "." || cleaned == "/" {
		return "file"
	}
	return cleaned
}
