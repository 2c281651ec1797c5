package homework

import (
	"slices"
	"strings"
)

type FileKind string

const (
	FileKindImage   FileKind = "IMAGE"
	FileKindPDF     FileKind = "PDF"
	FileKindWord    FileKind = "WORD"
	FileKindUnknown FileKind = "UNKNOWN"
)

// KindOf 根据 MIME 类型推断文件种类
func KindOf(mimeType string) FileKind {
	m := strings.ToLower(mimeType)
	switch {
	case strings.Contains(m, "image"):
		return FileKindImage
	case strings.Contains(m, "pdf"):
		return FileKindPDF
	case strings.Contains(m, "word"):
		return FileKindWord
	default:
		return FileKindUnknown
	}
}

// Annotation AI 分析结果，三个字段要么全有要么整体为空
type Annotation struct {
	Subject string `bson:"subject" json:"subject"`
	Summary string `bson:"summary" json:"summary"`
	Comment string `bson:"comment" json:"comment"`
}

type Homework struct {
	ID               string      `json:"id"`
	StudentName      string      `json:"studentName"`
	OriginalFileName string      `json:"originalFileName"`
	FileKind         FileKind    `json:"fileKind"`
	ContentLocation  string      `json:"contentLocation"`
	UploadedAtMillis int64       `json:"uploadedAtMillis"`
	Annotation       *Annotation `json:"annotation,omitempty"`
	IsAnnotating     bool        `json:"isAnnotating"`
}

// AnnotationPatch 记录创建后唯一允许的修改
type AnnotationPatch struct {
	Annotation   Annotation `json:"annotation"`
	IsAnnotating bool       `json:"isAnnotating"`
}

// Apply 将分析结果合并到记录上
func (h *Homework) Apply(p AnnotationPatch) {
	a := p.Annotation
	h.Annotation = &a
	h.IsAnnotating = p.IsAnnotating
}

// Clone 深拷贝
func (h *Homework) Clone() *Homework {
	c := *h
	if h.Annotation != nil {
		a := *h.Annotation
		c.Annotation = &a
	}
	return &c
}

// SortByUploadedDesc 按上传时间倒序，时间相同时保持原有顺序
func SortByUploadedDesc(list []*Homework) {
	slices.SortStableFunc(list, func(a, b *Homework) int {
		switch {
		case a.UploadedAtMillis > b.UploadedAtMillis:
			return -1
		case a.UploadedAtMillis < b.UploadedAtMillis:
			return 1
		default:
			return 0
		}
	})
}
