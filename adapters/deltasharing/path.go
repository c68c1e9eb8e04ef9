// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package deltasharing

import (
	"context"
	"fmt"
	"strings"

	delta_sharing "github.com/magpierre/go_delta_sharing_client"

	"github.com/magpierre/datagrid/datagrid"
)

// TablePath names a shared table.
type TablePath struct {
	Share  string
	Schema string
	Name   string
}

// ParseTablePath accepts "share.schema.table" or a node id of the form
// "share:<share>:schema:<schema>:table:<table>".
func ParseTablePath(s string) (TablePath, error) {
	if strings.HasPrefix(s, "share:") {
		return parseNodeID(s)
	}

	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return TablePath{}, fmt.Errorf("%w: table path %q is not share.schema.table", datagrid.ErrInvalidIdentifier, s)
	}
	p := TablePath{Share: parts[0], Schema: parts[1], Name: parts[2]}
	if !p.valid() {
		return TablePath{}, fmt.Errorf("%w: table path %q has an empty part", datagrid.ErrInvalidIdentifier, s)
	}
	return p, nil
}

func parseNodeID(nodeID string) (TablePath, error) {
	parts := strings.Split(nodeID, ":")
	if len(parts) != 6 || parts[0] != "share" || parts[2] != "schema" || parts[4] != "table" {
		return TablePath{}, fmt.Errorf("%w: node id %q does not name a table", datagrid.ErrInvalidIdentifier, nodeID)
	}
	p := TablePath{Share: parts[1], Schema: parts[3], Name: parts[5]}
	if !p.valid() {
		return TablePath{}, fmt.Errorf("%w: node id %q has an empty part", datagrid.ErrInvalidIdentifier, nodeID)
	}
	return p, nil
}

func (p TablePath) valid() bool {
	return p.Share != "" && p.Schema != "" && p.Name != ""
}

// String returns the dotted form of the path.
func (p TablePath) String() string {
	return p.Share + "." + p.Schema + "." + p.Name
}

// NodeID returns the node id form of the path.
func (p TablePath) NodeID() string {
	return fmt.Sprintf("share:%s:schema:%s:table:%s", p.Share, p.Schema, p.Name)
}

func (p TablePath) table() delta_sharing.Table {
	return delta_sharing.Table{Share: p.Share, Schema: p.Schema, Name: p.Name}
}

// ListTables returns every table the profile can read.
func ListTables(ctx context.Context, profile string) ([]TablePath, error) {
	client, err := delta_sharing.NewSharingClientV2FromString(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to create Delta Sharing client: %w", err)
	}

	tables, _, err := client.ListAllTables_V2(ctx, 0, "", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list all tables: %w", err)
	}

	paths := make([]TablePath, 0, len(tables))
	for _, t := range tables {
		paths = append(paths, TablePath{Share: t.Share, Schema: t.Schema, Name: t.Name})
	}
	return paths, nil
}
