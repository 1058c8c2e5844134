// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// RenderText writes one summary line per parsed request line or request.
func RenderText(w io.Writer, resp *RunResponse) error {
	for _, f := range resp.Files {
		for _, rl := range f.RequestLines {
			if _, err := fmt.Fprintf(w, "%s\t%s %s HTTP/%s\n", f.URI, rl.Method, rl.URI, rl.Version); err != nil {
				return err
			}
		}
		for _, req := range f.Requests {
			if _, err := fmt.Fprintf(w, "%s\t%s %s HTTP/%s headers=%d body=%d\n", f.URI, req.Method, req.URI, req.Version, len(req.Headers), len(req.Body)); err != nil {
				return err
			}
		}
	}
	return nil
}

// RenderJSON writes one JSON object per file.
func RenderJSON(w io.Writer, resp *RunResponse) error {
	opts := protojson.MarshalOptions{UseProtoNames: true}
	for _, f := range resp.Files {
		items := make([]any, 0, len(f.RequestLines)+len(f.Requests))
		for _, rl := range f.RequestLines {
			items = append(items, rl.Fields())
		}
		for _, req := range f.Requests {
			items = append(items, req.Fields())
		}
		msg, err := structpb.NewStruct(map[string]any{
			"file":  f.URI,
			"items": items,
		})
		if err != nil {
			return fmt.Errorf("render %s: %w", f.URI, err)
		}
		b, err := opts.Marshal(msg)
		if err != nil {
			return fmt.Errorf("render %s: %w", f.URI, err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", b); err != nil {
			return err
		}
	}
	return nil
}
