package processor

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/acrelle/dataproc/internal/domain"
)

// copyBufferSize is the chunk size used when streaming files through the
// gzip codec.
const copyBufferSize = 16 * 1024

// CompressFile gzip-compresses the file at src and writes the result to dst.
func (p *Processor) CompressFile(ctx context.Context, src, dst string) error {
	if err := p.compressFile(src, dst); err != nil {
		p.logger.Error("file compression failed",
			"error", err,
			"source", src,
			"destination", dst)
		p.recordFailure(ctx, domain.OperationCompression, err)
		return err
	}

	p.logger.Info("compressed file",
		"source", src,
		"destination", dst)
	p.recordSuccess(ctx, domain.OperationCompression,
		fmt.Sprintf("compressed %s to %s", src, dst))
	return nil
}

// DecompressFile reverses CompressFile: it reads gzip data from src and
// writes the decompressed content to dst.
func (p *Processor) DecompressFile(ctx context.Context, src, dst string) error {
	if err := p.decompressFile(src, dst); err != nil {
		p.logger.Error("file decompression failed",
			"error", err,
			"source", src,
			"destination", dst)
		p.recordFailure(ctx, domain.OperationCompression, err)
		return err
	}

	p.logger.Info("decompressed file",
		"source", src,
		"destination", dst)
	p.recordSuccess(ctx, domain.OperationCompression,
		fmt.Sprintf("decompressed %s to %s", src, dst))
	return nil
}

func (p *Processor) compressFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return NewProcessorError("compress_file", "failed to open source file", err)
	}
	defer func() { _ = srcFile.Close() }()

	dstFile, err := os.Create(dst)
	if err != nil {
		return NewProcessorError("compress_file", "failed to create destination file", err)
	}

	gzWriter := gzip.NewWriter(dstFile)

	buf := make([]byte, copyBufferSize)
	if _, err := io.CopyBuffer(gzWriter, srcFile, buf); err != nil {
		_ = gzWriter.Close()
		_ = dstFile.Close()
		return NewProcessorError("compress_file", "failed to compress data", err)
	}

	// Close flushes the remaining compressed data, so its error matters.
	if err := gzWriter.Close(); err != nil {
		_ = dstFile.Close()
		return NewProcessorError("compress_file", "failed to finalize compressed data", err)
	}
	if err := dstFile.Close(); err != nil {
		return NewProcessorError("compress_file", "failed to close destination file", err)
	}

	return nil
}

func (p *Processor) decompressFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return NewProcessorError("decompress_file", "failed to open source file", err)
	}
	defer func() { _ = srcFile.Close() }()

	gzReader, err := gzip.NewReader(srcFile)
	if err != nil {
		return NewProcessorError("decompress_file", "source is not valid gzip data", err)
	}
	defer func() { _ = gzReader.Close() }()

	dstFile, err := os.Create(dst)
	if err != nil {
		return NewProcessorError("decompress_file", "failed to create destination file", err)
	}

	buf := make([]byte, copyBufferSize)
	if _, err := io.CopyBuffer(dstFile, gzReader, buf); err != nil {
		_ = dstFile.Close()
		return NewProcessorError("decompress_file", "failed to decompress data", err)
	}

	if err := dstFile.Close(); err != nil {
		return NewProcessorError("decompress_file", "failed to close destination file", err)
	}

	return nil
}
