package serverconn

import (
	"bufio"
	"io"
	"strconv"

	"github.com/trillium-rs/trillium-sub000/pkg/body"
	protoerrors "github.com/trillium-rs/trillium-sub000/pkg/errors"
	"github.com/trillium-rs/trillium-sub000/pkg/header"
	"github.com/trillium-rs/trillium-sub000/pkg/proto"
)

// encodeResponse writes the status line, headers, and body for c to w. A
// response body with a known length is sent with Content-Length; an
// unknown-length streaming body is sent chunked.
func encodeResponse(w *bufio.Writer, c *Conn) error {
	if _, err := io.WriteString(w, "HTTP/1.1 "+c.Status.String()+"\r\n"); err != nil {
		return protoerrors.NewIOError("write", err)
	}

	resBody := c.ResponseBody
	if resBody == nil {
		resBody = body.NewEmpty()
	}

	headers := c.ResponseHeaders
	if !headers.Has(header.NewName("Date")) {
		headers.Insert(header.NewName("Date"), header.ValueString(httpDate()))
	}

	chunked := resBody.Len() < 0
	if chunked {
		headers.Insert(header.NewName("Transfer-Encoding"), header.ValueString("chunked"))
	} else if !headers.Has(header.NewName("Content-Length")) {
		headers.Insert(header.NewName("Content-Length"), header.ValueString(strconv.FormatInt(resBody.Len(), 10)))
	}

	if _, err := headers.WriteTo(w); err != nil {
		return protoerrors.NewIOError("write", err)
	}

	if c.Method.Equal(proto.Head) {
		return nil
	}

	if chunked {
		_, err := body.CopyChunked(w, resBody.Reader(), nil)
		if err != nil {
			return err
		}
		return nil
	}

	if _, err := io.Copy(w, resBody.Reader()); err != nil {
		return protoerrors.NewIOError("write", err)
	}
	return nil
}
