package java

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/craftlaunch/craftlaunch/internal/launcher/domain"
	"github.com/craftlaunch/craftlaunch/internal/launcher/downloads"
	"github.com/craftlaunch/craftlaunch/pkg/errors"
	"github.com/craftlaunch/craftlaunch/pkg/logger"
)

// DefaultAdoptiumURL is the Eclipse Adoptium (Temurin) API root
const DefaultAdoptiumURL = "https://api.adoptium.net"

// archiveTimeout bounds a full runtime archive download
const archiveTimeout = 30 * time.Minute

// AdoptiumClient fetches Temurin runtime metadata and installs runtime
// archives into a local directory.
type AdoptiumClient struct {
	client  *http.Client
	pool    *downloads.Pool
	logger  *logger.Logger
	baseURL string
}

// AdoptiumOption customizes an AdoptiumClient
type AdoptiumOption func(*AdoptiumClient)

// WithAdoptiumURL overrides the API root, mainly for tests
func WithAdoptiumURL(url string) AdoptiumOption {
	return func(c *AdoptiumClient) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithAdoptiumHTTPClient sets the HTTP client for metadata requests
func WithAdoptiumHTTPClient(client *http.Client) AdoptiumOption {
	return func(c *AdoptiumClient) { c.client = client }
}

// NewAdoptiumClient creates a client that downloads archives through pool
func NewAdoptiumClient(pool *downloads.Pool, opts ...AdoptiumOption) *AdoptiumClient {
	c := &AdoptiumClient{
		client:  &http.Client{Timeout: 30 * time.Second},
		pool:    pool,
		logger:  logger.New().WithField("component", "java-adoptium"),
		baseURL: DefaultAdoptiumURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name identifies this provider
func (c *AdoptiumClient) Name() string {
	return "adoptium"
}

type availableReleasesResponse struct {
	AvailableReleases []int `json:"available_releases"`
}

type latestAsset struct {
	Binary struct {
		ImageType string `json:"image_type"`
		Package   struct {
			Checksum string `json:"checksum"`
			Link     string `json:"link"`
			Name     string `json:"name"`
			Size     int64  `json:"size"`
		} `json:"package"`
	} `json:"binary"`
	ReleaseName string `json:"release_name"`
	Version     struct {
		Major  int    `json:"major"`
		Semver string `json:"semver"`
	} `json:"version"`
}

// AvailableVersions returns the major releases the provider can serve,
// in ascending order as reported upstream.
func (c *AdoptiumClient) AvailableVersions(ctx context.Context) ([]int, error) {
	url := c.baseURL + "/v3/info/available_releases"

	var parsed availableReleasesResponse
	if err := c.getJSON(ctx, url, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.AvailableReleases) == 0 {
		return nil, errors.ErrNoJavaReleases
	}
	return parsed.AvailableReleases, nil
}

// Install downloads the latest Temurin build for the requested major
// version and image type, verifies it, and unpacks it under destDir.
// Returns the recorded installation pointing at the java executable.
func (c *AdoptiumClient) Install(ctx context.Context, info domain.JavaDownloadInfo, destDir string) (domain.JavaInstallation, error) {
	if !info.ImageType.Valid() {
		return domain.JavaInstallation{}, errors.WrapToolchainError("adoptium", "install",
			fmt.Errorf("invalid image type %q", info.ImageType))
	}

	asset, err := c.latestAsset(ctx, info)
	if err != nil {
		return domain.JavaInstallation{}, err
	}

	archivePath := filepath.Join(destDir, asset.Binary.Package.Name)
	dctx, cancel := context.WithTimeout(ctx, archiveTimeout)
	defer cancel()

	// The published checksum is sha256, which the pool does not verify;
	// it is checked below after the transfer.
	if err := c.pool.Run(dctx, []downloads.Task{{URL: asset.Binary.Package.Link, Path: archivePath}}); err != nil {
		return domain.JavaInstallation{}, errors.WrapToolchainError("adoptium", "download", err)
	}
	defer func() { _ = os.Remove(archivePath) }()

	if err := verifySHA256(archivePath, asset.Binary.Package.Checksum); err != nil {
		return domain.JavaInstallation{}, errors.WrapToolchainError("adoptium", "verify", err)
	}

	installDir := filepath.Join(destDir, asset.ReleaseName+"-"+string(info.ImageType))
	if err := extractArchive(archivePath, installDir); err != nil {
		return domain.JavaInstallation{}, errors.WrapToolchainError("adoptium", "extract", err)
	}

	execPath, err := findJavaExecutable(installDir)
	if err != nil {
		return domain.JavaInstallation{}, errors.WrapToolchainError("adoptium", "locate", err)
	}

	c.logger.Info("java runtime installed", "release", asset.ReleaseName, "path", execPath)
	return domain.JavaInstallation{
		Path:         execPath,
		Version:      asset.Version.Semver,
		MajorVersion: asset.Version.Major,
		Vendor:       "adoptium",
	}, nil
}

// latestAsset queries the newest build matching the request for this host
func (c *AdoptiumClient) latestAsset(ctx context.Context, info domain.JavaDownloadInfo) (*latestAsset, error) {
	url := fmt.Sprintf("%s/v3/assets/latest/%d/hotspot?os=%s&architecture=%s&image_type=%s",
		c.baseURL, info.MajorVersion, adoptiumOS(), adoptiumArch(), info.ImageType)

	var assets []latestAsset
	if err := c.getJSON(ctx, url, &assets); err != nil {
		return nil, err
	}

	for i := range assets {
		if assets[i].Binary.ImageType == string(info.ImageType) {
			return &assets[i], nil
		}
	}
	return nil, errors.WrapToolchainError("adoptium", "resolve",
		fmt.Errorf("%w: no %s build for java %d on %s/%s",
			errors.ErrNoJavaReleases, info.ImageType, info.MajorVersion, adoptiumOS(), adoptiumArch()))
}

func (c *AdoptiumClient) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.WrapToolchainError("adoptium", "request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.WrapToolchainError("adoptium", "request", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errors.WrapToolchainError("adoptium", "request",
			fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.WrapToolchainError("adoptium", "decode", err)
	}
	return nil
}

// adoptiumOS maps GOOS onto the API's os parameter
func adoptiumOS() string {
	switch runtime.GOOS {
	case "darwin":
		return "mac"
	default:
		return runtime.GOOS
	}
}

// adoptiumArch maps GOARCH onto the API's architecture parameter
func adoptiumArch() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x64"
	case "arm64":
		return "aarch64"
	case "386":
		return "x86"
	default:
		return runtime.GOARCH
	}
}

func verifySHA256(path, want string) error {
	if want == "" {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return err
	}

	got := hex.EncodeToString(hasher.Sum(nil))
	if got != want {
		return fmt.Errorf("%w: got %s, want %s", errors.ErrChecksumMismatch, got, want)
	}
	return nil
}

// extractArchive unpacks a runtime archive by extension
func extractArchive(archivePath, destDir string) error {
	switch {
	case strings.HasSuffix(archivePath, ".tar.gz"), strings.HasSuffix(archivePath, ".tgz"):
		return extractTarGz(archivePath, destDir)
	case strings.HasSuffix(archivePath, ".zip"):
		return extractZip(archivePath, destDir)
	default:
		return fmt.Errorf("unsupported archive format: %s", filepath.Base(archivePath))
	}
}

func extractTarGz(archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer func() { _ = gz.Close() }()

	reader := tar.NewReader(gz)
	for {
		header, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		target, err := safeJoin(destDir, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeExtracted(target, reader, os.FileMode(header.Mode)); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			_ = os.Remove(target)
			if err := os.Symlink(header.Linkname, target); err != nil {
				return err
			}
		}
	}
}

func extractZip(archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer func() { _ = reader.Close() }()

	for _, file := range reader.File {
		target, err := safeJoin(destDir, file.Name)
		if err != nil {
			return err
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}

		src, err := file.Open()
		if err != nil {
			return err
		}
		err = writeExtracted(target, src, file.Mode())
		_ = src.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// safeJoin rejects archive entries that escape the destination directory
func safeJoin(destDir, name string) (string, error) {
	target := filepath.Join(destDir, filepath.FromSlash(name))
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry escapes destination: %s", name)
	}
	return target, nil
}

func writeExtracted(target string, src io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode.Perm())
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	_, err = io.Copy(out, src)
	return err
}

// findJavaExecutable locates bin/java inside an extracted runtime tree.
// Archives nest the runtime under a single release directory, and macOS
// builds add Contents/Home on top.
func findJavaExecutable(installDir string) (string, error) {
	relatives := []string{
		filepath.Join("bin", execName()),
		filepath.Join("Contents", "Home", "bin", execName()),
	}

	for _, rel := range relatives {
		direct := filepath.Join(installDir, rel)
		if _, err := os.Stat(direct); err == nil {
			return direct, nil
		}
	}

	entries, err := os.ReadDir(installDir)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		for _, rel := range relatives {
			nested := filepath.Join(installDir, entry.Name(), rel)
			if _, err := os.Stat(nested); err == nil {
				return nested, nil
			}
		}
	}

	return "", fmt.Errorf("%w: no java executable under %s", errors.ErrJavaNotFound, installDir)
}
