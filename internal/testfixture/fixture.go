// Package testfixture writes small, known datasets for package tests.
package testfixture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/dcviz/internal/config"
)

// PUE has 4 global rows, 5 site rows and 2 rejected rows.
const PUE = "Année,Trimestre,Site,Pays,Region,PUE_trimestriel,PUE_12_derniers_mois\n" +
	"2023,Q1,Parc (Global),Global,Global,1.12,1.11\n" +
	"2023,Q3,Parc (Global),Global,Global,1.10,1.10\n" +
	"2024,Q1,Parc (Global),Global,Global,1.09,\n" +
	"2024,Q3,Parc (Global),Global,Global,1.08,1.09\n" +
	"2023,Q1,Saint-Ghislain,Belgique,Europe,1.09,1.09\n" +
	"2024,Q1,Saint-Ghislain,Belgique,Europe,1.08,1.08\n" +
	"2024,Q1,Hamina,Finlande,Europe,1.10,1.10\n" +
	"2024,Q2,Council Bluffs,États-Unis,Amérique du Nord,1.11,1.10\n" +
	"2024,Q3,Changhua,Taïwan,Asie-Pacifique,1.12,1.12\n" +
	"2024,Q4,Broken,Taïwan,Asie-Pacifique,n/a,1.12\n" +
	",Q4,Broken,Taïwan,Asie-Pacifique,1.2,1.12\n"

// Servers has 4 valid rows and 1 rejected row.
const Servers = "Hardware release year,Average watts @ 100% of target load,ssj_ops @ 100% of target load,Performance/power @ 100% of target load,System,Hardware Vendor\n" +
	"2012,320,1200000,3750,PowerEdge R720,Dell\n" +
	"2016,280,2900000,10357,ProLiant DL360,HPE\n" +
	"2016,300,3300000,11000,,Lenovo\n" +
	"2021,410,9800000,23902,ThinkSystem SR665,\n" +
	"2022,abc,9800000,23902,Bad,Dell\n"

// Chips has 3 rows valid for the transistors view and 3 for performance.
const Chips = "Product,Type,Release Date,Process Size (nm),TDP (W),Transistors (million),Freq (GHz),Vendor\n" +
	"Pentium Pro,CPU,1995-11-01,350,35,5.5,200,Intel\n" +
	"Radeon HD 5870,GPU,2009-09-23,40,188,2154,850,ATI\n" +
	"EPYC 7763,CPU,2021-03-15,7,280,,2450,AMD\n" +
	"A100,GPU,2020-05-14,7,,54200,,NVIDIA\n"

// Write stores the three datasets under dir and returns a config pointing at
// them with every container enabled.
func Write(t testing.TB, dir string) *config.Global {
	t.Helper()
	files := map[string]string{"pue.csv": PUE, "servers.csv": Servers, "chips.csv": Chips}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return &config.Global{
		Data: config.DataSources{
			PUE:     filepath.Join(dir, "pue.csv"),
			Servers: filepath.Join(dir, "servers.csv"),
			Chips:   filepath.Join(dir, "chips.csv"),
		},
		OutputDir:          filepath.Join(dir, "site"),
		ListenAddr:         "127.0.0.1:0",
		Layout:             config.Layout{Containers: append([]string(nil), config.AllContainers...)},
		GlobalSite:         "Parc (Global)",
		RecentYears:        3,
		IndustryAveragePUE: 1.6,
		DefaultView:        "transistors",
		HTTPTimeoutSec:     5,
		SnapshotWidth:      800,
		SnapshotHeight:     600,
	}
}
