package backend

import (
	"context"
	"fmt"

	"github.com/craftlaunch/craftlaunch/internal/launcher/domain"
	"github.com/craftlaunch/craftlaunch/pkg/config"
)

// Request is the closed set of dispatchable commands. Each operation
// has its own request struct; the op marker keeps the set closed at
// compile time.
type Request interface {
	op() string
}

// Response is the result of a dispatched request; callers type-switch
// on the concrete response struct matching their request.
type Response interface {
	isResponse()
}

type GetSettingsRequest struct{}

type GetSettingsResponse struct {
	Settings config.Config
}

type SaveSettingsRequest struct {
	Settings config.Config
}

type SaveSettingsResponse struct{}

type DetectJavaRequest struct{}

type DetectJavaResponse struct {
	Installations []domain.JavaInstallation
}

type FetchAvailableJavaVersionsRequest struct{}

type FetchAvailableJavaVersionsResponse struct {
	Majors       []int
	DefaultMajor int
}

type DownloadAdoptiumJavaRequest struct {
	Info       domain.JavaDownloadInfo
	CustomPath string
}

type DownloadAdoptiumJavaResponse struct {
	Installation domain.JavaInstallation
}

type GetVersionsRequest struct{}

type GetVersionsResponse struct {
	Versions []domain.Version
	Selected string
}

type GetInstalledVersionsRequest struct{}

type GetInstalledVersionsResponse struct {
	IDs []string
}

type ListInstalledFabricVersionsRequest struct{}

type ListInstalledFabricVersionsResponse struct {
	IDs []string
}

type StartGameRequest struct{}

type StartGameResponse struct {
	Status string
}

func (GetSettingsRequest) op() string                 { return "get_settings" }
func (SaveSettingsRequest) op() string                { return "save_settings" }
func (DetectJavaRequest) op() string                  { return "detect_java" }
func (FetchAvailableJavaVersionsRequest) op() string  { return "fetch_available_java_versions" }
func (DownloadAdoptiumJavaRequest) op() string        { return "download_adoptium_java" }
func (GetVersionsRequest) op() string                 { return "get_versions" }
func (GetInstalledVersionsRequest) op() string        { return "get_installed_versions" }
func (ListInstalledFabricVersionsRequest) op() string { return "list_installed_fabric_versions" }
func (StartGameRequest) op() string                   { return "start_game" }

func (GetSettingsResponse) isResponse()                 {}
func (SaveSettingsResponse) isResponse()                {}
func (DetectJavaResponse) isResponse()                  {}
func (FetchAvailableJavaVersionsResponse) isResponse()  {}
func (DownloadAdoptiumJavaResponse) isResponse()        {}
func (GetVersionsResponse) isResponse()                 {}
func (GetInstalledVersionsResponse) isResponse()        {}
func (ListInstalledFabricVersionsResponse) isResponse() {}
func (StartGameResponse) isResponse()                   {}

// Dispatch routes a tagged request to its typed handler. It exists for
// callers that need a single wire-shaped entry point; in-process
// callers use the Service methods directly.
func (s *Service) Dispatch(ctx context.Context, req Request) (Response, error) {
	switch r := req.(type) {
	case GetSettingsRequest:
		return GetSettingsResponse{Settings: s.GetSettings()}, nil
	case SaveSettingsRequest:
		if err := s.SaveSettings(ctx, r.Settings); err != nil {
			return nil, err
		}
		return SaveSettingsResponse{}, nil
	case DetectJavaRequest:
		installations, err := s.DetectJava(ctx)
		if err != nil {
			return nil, err
		}
		return DetectJavaResponse{Installations: installations}, nil
	case FetchAvailableJavaVersionsRequest:
		majors, defaultMajor, err := s.FetchAvailableJavaVersions(ctx)
		if err != nil {
			return nil, err
		}
		return FetchAvailableJavaVersionsResponse{Majors: majors, DefaultMajor: defaultMajor}, nil
	case DownloadAdoptiumJavaRequest:
		installation, err := s.DownloadAdoptiumJava(ctx, r.Info, r.CustomPath)
		if err != nil {
			return nil, err
		}
		return DownloadAdoptiumJavaResponse{Installation: installation}, nil
	case GetVersionsRequest:
		versions, selected, err := s.GetVersions(ctx)
		if err != nil {
			return nil, err
		}
		return GetVersionsResponse{Versions: versions, Selected: selected}, nil
	case GetInstalledVersionsRequest:
		ids, err := s.GetInstalledVersions(ctx)
		if err != nil {
			return nil, err
		}
		return GetInstalledVersionsResponse{IDs: ids}, nil
	case ListInstalledFabricVersionsRequest:
		ids, err := s.ListInstalledFabricVersions(ctx)
		if err != nil {
			return nil, err
		}
		return ListInstalledFabricVersionsResponse{IDs: ids}, nil
	case StartGameRequest:
		status, err := s.StartGame(ctx)
		if err != nil {
			return nil, err
		}
		return StartGameResponse{Status: status}, nil
	default:
		return nil, fmt.Errorf("unknown request %T", req)
	}
}
