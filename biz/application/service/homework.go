package service

import (
	"context"
	"errors"
	"fmt"
	"homework-wall/biz/adaptor"
	"homework-wall/biz/application/dto/gallery"
	"homework-wall/biz/application/view"
	"homework-wall/biz/infrastructure/annotator"
	"homework-wall/biz/infrastructure/config"
	"homework-wall/biz/infrastructure/connection"
	"homework-wall/biz/infrastructure/consts"
	"homework-wall/biz/infrastructure/repository/homework"
	"homework-wall/biz/infrastructure/storage"
	"homework-wall/biz/infrastructure/util/log"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/wire"
	"github.com/jinzhu/copier"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "homework-wall/service"

type IHomeworkService interface {
	Submit(ctx context.Context, req *gallery.SubmitHomeworkReq) (*gallery.SubmitHomeworkResp, error)
	Delete(ctx context.Context, req *gallery.DeleteHomeworkReq) (*gallery.Response, error)
	Load(ctx context.Context) error
	List(ctx context.Context) (*gallery.ListHomeworksResp, error)
	WaitIdle(ctx context.Context) error
}

type HomeworkService struct {
	Config   *config.Config
	Manager  *connection.Manager
	View     *view.State
	Resolver *annotator.Resolver
	Tasks    *AnnotationTasks
}

var HomeworkServiceSet = wire.NewSet(
	wire.Struct(new(HomeworkService), "*"),
	wire.Bind(new(IHomeworkService), new(*HomeworkService)),
)

// Submit 读取文件、上传、写入记录后立即返回，图片的 AI 分析在后台进行
func (s *HomeworkService) Submit(ctx context.Context, req *gallery.SubmitHomeworkReq) (*gallery.SubmitHomeworkResp, error) {
	name := strings.TrimSpace(req.StudentName)
	if name == "" || req.Reader == nil {
		s.notify(consts.MsgSubmitIncomplete)
		return nil, consts.ErrInvalidParams
	}
	backend, err := s.Manager.Current()
	if err != nil {
		s.notify(consts.MsgNotConfigured)
		return nil, err
	}

	data, err := s.read(req)
	if err != nil {
		s.notify(consts.MsgUploadFailed)
		return nil, err
	}
	mimeType := req.MimeType
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = mimetype.Detect(data).String()
	}
	if !s.allowed(mimeType) {
		s.notify(consts.MsgUploadFailed)
		return nil, fmt.Errorf("%w: %s", consts.ErrUnsupportedType, mimeType)
	}
	kind := homework.KindOf(mimeType)

	// 上传文件
	now := time.Now()
	key := storage.NewObjectKey(req.FileName, now)
	location, err := backend.Blob.Put(ctx, key, data, mimeType)
	if err != nil {
		log.CtxError(ctx, "上传作业文件失败: %v", err)
		s.notify(consts.MsgUploadFailed)
		return nil, fmt.Errorf("%w: %w", consts.ErrUpload, err)
	}

	// 写入记录
	h := &homework.Homework{
		StudentName:      name,
		OriginalFileName: req.FileName,
		FileKind:         kind,
		ContentLocation:  location,
		UploadedAtMillis: now.UnixMilli(),
		IsAnnotating:     kind == homework.FileKindImage,
	}
	if _, err := backend.Mapper.Insert(ctx, h); err != nil {
		log.CtxError(ctx, "创建作业记录失败: %v", err)
		if derr := backend.Blob.Delete(context.WithoutCancel(ctx), key); derr != nil {
			log.CtxError(ctx, "清理孤立文件 %s 失败: %v", key, derr)
		}
		s.notify(consts.MsgUploadFailed)
		return nil, fmt.Errorf("%w: %w", consts.ErrCreateHomework, err)
	}

	s.View.InsertFront(h)
	s.View.SetScreen(view.ScreenGallery)
	s.notify(consts.MsgUploadSucceed)

	if kind == homework.FileKindImage {
		s.startAnnotation(ctx, backend, h.ID, data, mimeType)
	}
	return &gallery.SubmitHomeworkResp{Homework: toDTO(h)}, nil
}

func (s *HomeworkService) read(req *gallery.SubmitHomeworkReq) ([]byte, error) {
	limit := s.Config.Upload.MaxBytes
	if limit <= 0 {
		limit = consts.DefaultMaxUploadBytes
	}
	if req.Size > limit {
		return nil, consts.ErrFileTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(req.Reader, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", consts.ErrRead, err)
	}
	if int64(len(data)) > limit {
		return nil, consts.ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", consts.ErrRead)
	}
	return data, nil
}

// allowed 未配置白名单时接受任意类型
func (s *HomeworkService) allowed(mimeType string) bool {
	if len(s.Config.Upload.AllowedTypes) == 0 {
		return true
	}
	base, _, _ := strings.Cut(mimeType, ";")
	return lo.Contains(s.Config.Upload.AllowedTypes, strings.TrimSpace(base))
}

// startAnnotation 分析任务与请求解耦，请求结束后继续运行，且固定使用提交时的后端
func (s *HomeworkService) startAnnotation(ctx context.Context, backend *connection.Backend, id string, data []byte, mimeType string) {
	taskCtx := context.WithoutCancel(ctx)
	s.Tasks.Start(taskCtx, id, func(ctx context.Context) {
		ctx, span := otel.Tracer(tracerName).Start(ctx, "homework.annotate", trace.WithSpanKind(trace.SpanKindInternal))
		defer span.End()
		span.SetAttributes(attribute.String("homework.id", id), attribute.String("homework.mime_type", mimeType))

		a := s.Resolver.Resolve(ctx, data, mimeType)
		patch := homework.AnnotationPatch{Annotation: a, IsAnnotating: false}
		if err := backend.Mapper.UpdateAnnotation(ctx, id, patch); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "persist annotation")
			log.CtxError(ctx, "保存 homework %s 的分析结果失败: %v", id, err)
		}
		s.View.PatchByID(id, patch)
	})
}

// Delete 仅管理模式可用，等存储确认删除后才更新视图
func (s *HomeworkService) Delete(ctx context.Context, req *gallery.DeleteHomeworkReq) (*gallery.Response, error) {
	if !adaptor.ExtractAdmin(ctx, s.Config.Auth) {
		s.notify(consts.MsgAdminRequired)
		return nil, consts.ErrForbidden
	}
	backend, err := s.Manager.Current()
	if err != nil {
		s.notify(consts.MsgNotConfigured)
		return nil, err
	}
	if err := backend.Mapper.Delete(ctx, req.ID); err != nil {
		log.CtxError(ctx, "删除 homework %s 失败: %v", req.ID, err)
		s.notify(consts.MsgDeleteFailed)
		if errors.Is(err, consts.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", consts.ErrDeleteHomework, err)
	}
	s.View.RemoveByID(req.ID)
	s.notify(consts.MsgDeleteSucceed)
	return &gallery.Response{Code: 0, Msg: consts.MsgDeleteSucceed}, nil
}

// Load 从存储整体重建视图
func (s *HomeworkService) Load(ctx context.Context) error {
	backend, err := s.Manager.Current()
	if err != nil {
		return err
	}
	list, err := backend.Mapper.ListAll(ctx)
	if err != nil {
		log.CtxError(ctx, "加载作品列表失败: %v", err)
		s.notify(consts.MsgLoadFailed)
		return fmt.Errorf("%w: %w", consts.ErrGetHomeworkList, err)
	}
	s.View.Replace(list)
	return nil
}

func (s *HomeworkService) List(_ context.Context) (*gallery.ListHomeworksResp, error) {
	records := s.View.Records()
	resp := &gallery.ListHomeworksResp{
		Homeworks: make([]*gallery.Homework, 0, len(records)),
		Total:     int64(len(records)),
	}
	for _, h := range records {
		resp.Homeworks = append(resp.Homeworks, toDTO(h))
	}
	return resp, nil
}

func (s *HomeworkService) WaitIdle(ctx context.Context) error {
	return s.Tasks.Wait(ctx)
}

func (s *HomeworkService) notify(message string) {
	dismiss := s.Config.Notify.DismissMillis
	if dismiss <= 0 {
		dismiss = consts.DefaultDismissMillis
	}
	s.View.Notify(message, dismiss)
}

func toDTO(h *homework.Homework) *gallery.Homework {
	dto := new(gallery.Homework)
	if err := copier.Copy(dto, h); err != nil {
		log.Error("homework 转换失败: %v", err)
	}
	dto.Annotation = nil
	if h.Annotation != nil {
		dto.Annotation = &gallery.Annotation{
			Subject: h.Annotation.Subject,
			Summary: h.Annotation.Summary,
			Comment: h.Annotation.Comment,
		}
	}
	return dto
}
