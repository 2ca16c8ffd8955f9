// Package seed loads the starter catalog and an optional admin account.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront-api/internal/domain"
)

type product struct {
	name        string
	description string
	price       string
	stock       int
}

type category struct {
	name        string
	description string
	products    []product
}

var catalog = []category{
	{
		name:        "Hosting Hizmetleri",
		description: "Web hosting ve sunucu hizmetleri",
		products: []product{
			{"Başlangıç Hosting Paketi", "Küçük web siteleri için uygun başlangıç hosting paketi", "29.99", 100},
			{"Kurumsal Hosting Paketi", "Büyük işletmeler için gelişmiş hosting çözümü", "89.99", 50},
			{"VPS Sunucu", "Sanal özel sunucu hizmeti", "149.99", 30},
			{"Dedicated Sunucu", "Özel sunucu hizmeti yüksek performans için", "299.99", 20},
			{"Cloud Hosting", "Bulut tabanlı hosting çözümü", "199.99", 40},
		},
	},
	{
		name:        "Domain Hizmetleri",
		description: "Alan adı kayıt ve yönetim hizmetleri",
		products: []product{
			{".com Alan Adı", "Yıllık .com alan adı kayıt hizmeti", "14.99", 500},
			{".com.tr Alan Adı", "Türkiye için .com.tr alan adı kayıt hizmeti", "19.99", 300},
			{".net Alan Adı", "Yıllık .net alan adı kayıt hizmeti", "16.99", 400},
			{".org Alan Adı", "Organizasyonlar için .org alan adı", "18.99", 250},
			{"Domain Transfer Hizmeti", "Mevcut alan adınızı bize transfer edin", "9.99", 1000},
		},
	},
	{
		name:        "Yazılım Ürünleri",
		description: "Yazılım şirketi ürünleri ve çözümleri",
		products: []product{
			{"E-Ticaret Yazılımı", "Online mağaza kurulumu için tam kapsamlı yazılım", "599.99", 25},
			{"CRM Yazılımı", "Müşteri ilişkileri yönetimi yazılımı", "399.99", 35},
			{"Muhasebe Yazılımı", "İşletme muhasebe işlemleri için yazılım", "299.99", 45},
			{"Web Tasarım Yazılımı", "Profesyonel web sitesi tasarım yazılımı", "199.99", 60},
			{"Güvenlik Yazılımı", "Siber güvenlik ve koruma yazılımı", "149.99", 80},
		},
	},
}

// Admin describes the account created by Run when Email is set.
type Admin struct {
	Name     string
	Email    string
	Password string
}

type Result struct {
	Categories int
	Products   int
	Admin      bool
}

// Run inserts whatever part of the starter data is missing. Rows are matched
// by name (email for the admin), so running it twice adds nothing.
func Run(ctx context.Context, db *gorm.DB, admin Admin) (Result, error) {
	var res Result
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range catalog {
			cat := domain.Category{Name: c.name, Description: c.description}
			created, err := firstOrCreate(tx, &cat, "name", c.name)
			if err != nil {
				return fmt.Errorf("seed category %q: %w", c.name, err)
			}
			if created {
				res.Categories++
			}

			for _, p := range c.products {
				row := domain.Product{
					Name:          p.name,
					Description:   p.description,
					Price:         decimal.RequireFromString(p.price),
					StockQuantity: p.stock,
					CategoryID:    cat.ID,
				}
				created, err := firstOrCreate(tx, &row, "name", p.name)
				if err != nil {
					return fmt.Errorf("seed product %q: %w", p.name, err)
				}
				if created {
					res.Products++
				}
			}
		}

		if admin.Email == "" {
			return nil
		}
		created, err := seedAdmin(tx, admin)
		if err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		res.Admin = created
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	log.Printf("seed: %d categories, %d products created", res.Categories, res.Products)
	return res, nil
}

// firstOrCreate loads the row whose column equals value into dst, or inserts
// dst as given. It reports whether a row was inserted.
func firstOrCreate(tx *gorm.DB, dst any, column string, value any) (bool, error) {
	r := tx.Where(column+" = ?", value).Limit(1).Find(dst)
	if r.Error != nil {
		return false, r.Error
	}
	if r.RowsAffected > 0 {
		return false, nil
	}
	if err := tx.Omit(clause.Associations).Create(dst).Error; err != nil {
		return false, err
	}
	return true, nil
}

func seedAdmin(tx *gorm.DB, admin Admin) (bool, error) {
	if len(admin.Password) < 8 {
		return false, errors.New("admin password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	name := admin.Name
	if name == "" {
		name = "Administrator"
	}
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	u := domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	return firstOrCreate(tx, &u, "email", email)
}
