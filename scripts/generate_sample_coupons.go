//go:build ignore

package main

import (
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Generates the sample coupon catalogue used by the coupon integration test
// and by COUPON_FILES in local runs.
//
// Records are CODE,TYPE,VALUE[,MIN_PURCHASE]. couponbase2.gz is loaded after
// couponbase1.gz and overrides BLACKFRIDAY.
func main() {
	dataDir := "data/coupons"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	files := []struct {
		name    string
		records []string
	}{
		{
			name: "couponbase1.gz",
			records: []string{
				"# code,type,value,min_purchase",
				"WELCOME10,percentage,10",
				"SAVE50,fixed,50,200",
				"FREESHIP,fixed,29.90",
				"SUMMER15,percentage,15",
				"BLACKFRIDAY,percentage,20",
			},
		},
		{
			name: "couponbase2.gz",
			records: []string{
				"BLACKFRIDAY,percentage,25",
				"VIP100,fixed,100,1000",
			},
		},
	}

	for _, f := range files {
		filePath := filepath.Join(dataDir, f.name)

		if err := createCouponFile(filePath, f.records); err != nil {
			log.Fatalf("Failed to create %s: %v", f.name, err)
		}

		fmt.Printf("Created %s with %d records\n", filePath, len(f.records))
	}

	fmt.Println("\nSample coupon files created successfully!")
	fmt.Println("Use them with: COUPON_FILES=data/coupons/couponbase1.gz,data/coupons/couponbase2.gz")
}

func createCouponFile(filePath string, records []string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	for _, record := range records {
		if _, err := fmt.Fprintf(gzipWriter, "%s\n", record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	return nil
}
