package gallery

import (
	"io"
)

type Response struct {
	Code int64  `json:"code"`
	Msg  string `json:"msg"`
}

type Annotation struct {
	Subject string `json:"subject"`
	Summary string `json:"summary"`
	Comment string `json:"comment"`
}

type Homework struct {
	ID               string      `json:"id"`
	StudentName      string      `json:"studentName"`
	OriginalFileName string      `json:"originalFileName"`
	FileKind         string      `json:"fileKind"`
	ContentLocation  string      `json:"contentLocation"`
	UploadedAtMillis int64       `json:"uploadedAtMillis"`
	Annotation       *Annotation `json:"annotation,omitempty"`
	IsAnnotating     bool        `json:"isAnnotating"`
}

// SubmitHomeworkReq multipart 表单中的 studentName 与 file
type SubmitHomeworkReq struct {
	StudentName string    `json:"studentName"`
	FileName    string    `json:"fileName"`
	MimeType    string    `json:"mimeType"`
	Size        int64     `json:"size"`
	Reader      io.Reader `json:"-"`
}

type SubmitHomeworkResp struct {
	Homework *Homework `json:"homework"`
}

type ListHomeworksResp struct {
	Homeworks []*Homework `json:"homeworks"`
	Total     int64       `json:"total"`
}

type DeleteHomeworkReq struct {
	ID string `path:"id" vd:"len($)>0"`
}
