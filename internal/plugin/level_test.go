package plugin

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocate(t *testing.T) {
	t.Parallel()

	root := filepath.Join("/opt", "fdp")

	cases := []struct {
		name     string
		level    Level
		identity string
		branch   string
		want     Location
		wantErr  bool
	}{
		{
			name:  "top level uses the root and the methods module",
			level: LevelTop,
			want:  Location{Level: LevelTop, Dir: root, Module: "methods"},
		},
		{
			name:     "facility level is a module named after the identity",
			level:    LevelFacility,
			identity: "nstxu",
			want:     Location{Level: LevelFacility, Dir: filepath.Join(root, "methods"), Module: "nstxu"},
		},
		{
			name:     "single segment branch lives in the identity directory",
			level:    LevelBranch,
			identity: "nstxu",
			branch:   "bes",
			want:     Location{Level: LevelBranch, Dir: filepath.Join(root, "methods", "nstxu"), Module: "bes"},
		},
		{
			name:     "nested branch maps segments to directories",
			level:    LevelBranch,
			identity: "diiid",
			branch:   "magnetics.probes.bdot",
			want:     Location{Level: LevelBranch, Dir: filepath.Join(root, "methods", "diiid", "magnetics", "probes"), Module: "bdot"},
		},
		{
			name:    "facility level without identity fails",
			level:   LevelFacility,
			wantErr: true,
		},
		{
			name:     "empty branch segment fails",
			level:    LevelBranch,
			identity: "cmod",
			branch:   "a..b",
			wantErr:  true,
		},
		{
			name:    "unknown level fails",
			level:   Level(9),
			wantErr: true,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Locate(root, tc.level, tc.identity, tc.branch)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestLevelString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "top", LevelTop.String())
	require.Equal(t, "facility", LevelFacility.String())
	require.Equal(t, "branch", LevelBranch.String())
	require.Equal(t, "level(7)", Level(7).String())
}
