package masterdata

import "context"

// Repository persists cadastro entities. Natural-key lookups back the
// duplicate checks; nil means no record with that key.
type Repository interface {
	// Color operations
	ListColors(ctx context.Context, f ListFilters) ([]Color, int, error)
	GetColor(ctx context.Context, id int64) (Color, error)
	FindColorByNome(ctx context.Context, nome string) (*Color, error)
	CreateColor(ctx context.Context, c Color) (Color, error)
	UpdateColor(ctx context.Context, id int64, c Color) error
	DeleteColor(ctx context.Context, id int64) error

	// Family operations
	ListFamilies(ctx context.Context, f ListFilters) ([]Family, int, error)
	GetFamily(ctx context.Context, id int64) (Family, error)
	FindFamilyByCodigo(ctx context.Context, codigo string) (*Family, error)
	CreateFamily(ctx context.Context, fa Family) (Family, error)
	UpdateFamily(ctx context.Context, id int64, fa Family) error
	DeleteFamily(ctx context.Context, id int64) error

	// Size operations
	ListSizes(ctx context.Context, f ListFilters) ([]Size, int, error)
	GetSize(ctx context.Context, id int64) (Size, error)
	FindSizeByNome(ctx context.Context, nome string) (*Size, error)
	CreateSize(ctx context.Context, s Size) (Size, error)
	UpdateSize(ctx context.Context, id int64, s Size) error
	DeleteSize(ctx context.Context, id int64) error

	// Warehouse operations
	ListWarehouses(ctx context.Context, f ListFilters) ([]Warehouse, int, error)
	GetWarehouse(ctx context.Context, id int64) (Warehouse, error)
	FindWarehouseByCodigo(ctx context.Context, codigo string) (*Warehouse, error)
	CreateWarehouse(ctx context.Context, w Warehouse) (Warehouse, error)
	UpdateWarehouse(ctx context.Context, id int64, w Warehouse) error
	DeleteWarehouse(ctx context.Context, id int64) error

	// BusinessUnit operations
	ListBusinessUnits(ctx context.Context, f ListFilters) ([]BusinessUnit, int, error)
	GetBusinessUnit(ctx context.Context, id int64) (BusinessUnit, error)
	FindBusinessUnitByCodigo(ctx context.Context, codigo string) (*BusinessUnit, error)
	CreateBusinessUnit(ctx context.Context, u BusinessUnit) (BusinessUnit, error)
	UpdateBusinessUnit(ctx context.Context, id int64, u BusinessUnit) error
	DeleteBusinessUnit(ctx context.Context, id int64) error

	// Company operations
	ListCompanies(ctx context.Context, f ListFilters) ([]Company, int, error)
	GetCompany(ctx context.Context, id int64) (Company, error)
	FindCompanyByNome(ctx context.Context, nome string) (*Company, error)
	CreateCompany(ctx context.Context, c Company) (Company, error)
	UpdateCompany(ctx context.Context, id int64, c Company) error
	DeleteCompany(ctx context.Context, id int64) error

	// Supplier operations
	ListSuppliers(ctx context.Context, f ListFilters) ([]Supplier, int, error)
	GetSupplier(ctx context.Context, id int64) (Supplier, error)
	FindSupplierByNome(ctx context.Context, nome string) (*Supplier, error)
	CreateSupplier(ctx context.Context, s Supplier) (Supplier, error)
	UpdateSupplier(ctx context.Context, id int64, s Supplier) error
	DeleteSupplier(ctx context.Context, id int64) error

	// Client operations
	ListClients(ctx context.Context, f ListFilters) ([]Client, int, error)
	GetClient(ctx context.Context, id int64) (Client, error)
	FindClientByNome(ctx context.Context, nome string) (*Client, error)
	CreateClient(ctx context.Context, c Client) (Client, error)
	UpdateClient(ctx context.Context, id int64, c Client) error
	DeleteClient(ctx context.Context, id int64) error

	// Representative operations
	ListRepresentatives(ctx context.Context, f ListFilters) ([]Representative, int, error)
	GetRepresentative(ctx context.Context, id int64) (Representative, error)
	FindRepresentativeByNome(ctx context.Context, nome string) (*Representative, error)
	CreateRepresentative(ctx context.Context, rp Representative) (Representative, error)
	UpdateRepresentative(ctx context.Context, id int64, rp Representative) error
	DeleteRepresentative(ctx context.Context, id int64) error

	// Stats returns totals for the cadastro cards. entity is the route
	// slug (cores, familias, ...).
	Stats(ctx context.Context, entity string) (Stats, error)
}
