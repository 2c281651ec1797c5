package consts

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Errno struct {
	err  error
	code codes.Code
}

// GRPCStatus 实现 GRPCStatus 方法
func (en *Errno) GRPCStatus() *status.Status {
	return status.New(en.code, en.err.Error())
}

// 实现 Error 方法
func (en *Errno) Error() string {
	return en.err.Error()
}

// Code 返回错误码
func (en *Errno) Code() codes.Code {
	return en.code
}

// NewErrno 创建自定义错误
func NewErrno(code codes.Code, err error) *Errno {
	return &Errno{
		err:  err,
		code: code,
	}
}

// 定义常量错误
var (
	ErrForbidden       = NewErrno(codes.PermissionDenied, errors.New("forbidden"))
	ErrWrongPassword   = NewErrno(codes.Code(1001), errors.New("密码错误"))
	ErrRead            = NewErrno(codes.Code(1002), errors.New("文件读取失败"))
	ErrFileTooLarge    = NewErrno(codes.Code(1003), errors.New("文件大小超出限制"))
	ErrUnsupportedType = NewErrno(codes.Code(1004), errors.New("请上传图片 (JPG, PNG, WEBP), PDF, 或 Word 文档"))
	ErrUpload          = NewErrno(codes.Code(1005), errors.New("文件上传失败"))
	ErrCreateHomework  = NewErrno(codes.Code(1006), errors.New("创建作业记录失败"))
	ErrDeleteHomework  = NewErrno(codes.Code(1007), errors.New("删除作业失败"))
	ErrGetHomeworkList = NewErrno(codes.Code(1008), errors.New("获取作品列表失败"))
	ErrAnnotation      = NewErrno(codes.Code(1009), errors.New("AI 分析失败"))
)

// 配置与连接相关错误
var (
	ErrNotConfigured    = NewErrno(codes.FailedPrecondition, errors.New("尚未完成存储配置"))
	ErrInvalidConfig    = NewErrno(codes.Code(2001), errors.New("配置无效"))
	ErrStoreUnavailable = NewErrno(codes.Unavailable, errors.New("网络连接失败，无法连接到存储服务"))
	ErrPermissionDenied = NewErrno(codes.Code(2002), errors.New("权限被拒绝，请检查存储服务的读写权限设置"))
	ErrNotProvisioned   = NewErrno(codes.Code(2003), errors.New("数据库或存储桶未创建，请先在控制台完成初始化"))
)

// ErrInvalidParams 调用时错误
var (
	ErrInvalidParams = NewErrno(codes.InvalidArgument, errors.New("参数错误"))
)

// 数据库相关错误
var (
	ErrNotFound        = NewErrno(codes.NotFound, errors.New("not found"))
	ErrInvalidObjectId = NewErrno(codes.InvalidArgument, errors.New("无效的id "))
)
