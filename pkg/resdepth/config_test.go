package resdepth

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrew-torda/resdepth/pkg/common"
	"github.com/andrew-torda/resdepth/surface"
)

const cfgText = `xyzr: /opt/msms/pdb_to_xyzr
msms: /opt/msms/msms.x86_64Linux2.2.6.1
tmpdir: /scratch
cleanup: onerror
minfreemb: 100
`

func wrtCfg(t *testing.T, s string) string {
	t.Helper()
	fname, err := common.WrtTemp(s)
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(fname) })
	return fname
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(wrtCfg(t, cfgText))
	require.NoError(t, err)
	assert.Equal(t, "/opt/msms/pdb_to_xyzr", cfg.Xyzr)
	assert.Equal(t, "/scratch", cfg.TmpDir)
	assert.Equal(t, uint64(100), cfg.MinFreeMB)
	assert.Empty(t, cfg.CacheDir)

	opts, err := cfg.surfOpts()
	require.NoError(t, err)
	assert.Equal(t, surface.KeepOnError, opts.Cleanup)
	assert.Equal(t, "/opt/msms/msms.x86_64Linux2.2.6.1", opts.MsmsExe)
}

func TestConfigMerge(t *testing.T) {
	cfg, err := ReadConfig(wrtCfg(t, cfgText))
	require.NoError(t, err)
	cfg.merge(&CmdFlag{Msms: "mymsms", Cleanup: "keep", CacheDir: "/var/cache/rd"})
	assert.Equal(t, "/opt/msms/pdb_to_xyzr", cfg.Xyzr, "unset flag should not override")
	assert.Equal(t, "mymsms", cfg.Msms)
	assert.Equal(t, "/var/cache/rd", cfg.CacheDir)
	opts, err := cfg.surfOpts()
	require.NoError(t, err)
	assert.Equal(t, surface.KeepAlways, opts.Cleanup)
}

func TestConfigBad(t *testing.T) {
	_, err := ReadConfig(wrtCfg(t, "msms: a\nmsmss: b\n"))
	assert.Error(t, err, "unknown key")

	_, err = ReadConfig(wrtCfg(t, "minfreemb: lots\n"))
	assert.Error(t, err, "bad number")

	_, err = ReadConfig("notexist.yaml")
	assert.ErrorIs(t, err, os.ErrNotExist)

	cfg := Config{Cleanup: "sometimes"}
	_, err = cfg.surfOpts()
	assert.Error(t, err)
}
