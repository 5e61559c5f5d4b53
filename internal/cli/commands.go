package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"hotelguru/internal/domain"
	"hotelguru/internal/navigation"
)

func loginCmd() command {
	return command{
		name:  "login",
		route: navigation.RouteLogin,
		help:  "log in and store the tokens",
		setup: func(fs *flag.FlagSet) runFunc {
			email := fs.String("email", "", "account email")
			password := fs.String("password", "", "account password")
			return func(ctx context.Context, a *App) error {
				if *email == "" || *password == "" {
					return usageError("--email and --password are required")
				}
				a.Store.Login(ctx, domain.Credentials{Email: *email, Password: *password})
				snap := a.Store.Snapshot()
				if snap.LastLoginError != "" {
					return errors.New(snap.LastLoginError)
				}
				return a.printSession()
			}
		},
	}
}

func logoutCmd() command {
	return command{
		name:  "logout",
		route: navigation.RouteHome,
		help:  "forget the stored tokens",
		setup: func(fs *flag.FlagSet) runFunc {
			return func(ctx context.Context, a *App) error {
				a.Store.Logout(ctx)
				return a.printSession()
			}
		},
	}
}

func registerCmd() command {
	return command{
		name:  "register",
		route: navigation.RouteRegister,
		help:  "create an account",
		setup: func(fs *flag.FlagSet) runFunc {
			reg := domain.Registration{}
			fs.StringVar(&reg.Name, "name", "", "full name")
			fs.StringVar(&reg.Email, "email", "", "account email")
			fs.StringVar(&reg.Password, "password", "", "account password")
			fs.StringVar(&reg.Phone, "phone", "", "phone number")
			addr := addressFlags(fs)
			return func(ctx context.Context, a *App) error {
				if reg.Name == "" || reg.Email == "" || reg.Password == "" {
					return usageError("--name, --email and --password are required")
				}
				reg.Address = addr()
				a.Store.Register(ctx, reg)
				if msg := a.Store.Snapshot().LastRegisterError; msg != "" {
					return errors.New(msg)
				}
				return a.printJSON(map[string]string{
					"status": "registered",
					"next":   a.Router.Current().FullPath(),
				})
			}
		},
	}
}

func whoamiCmd() command {
	return command{
		name:  "whoami",
		route: navigation.RouteHome,
		help:  "show the current session",
		setup: func(fs *flag.FlagSet) runFunc {
			return func(ctx context.Context, a *App) error {
				return a.printSession()
			}
		},
	}
}

func profileCmd() command {
	return command{
		name:  "profile",
		route: navigation.RouteProfile,
		help:  "load and show the profile",
		setup: func(fs *flag.FlagSet) runFunc {
			return func(ctx context.Context, a *App) error {
				a.Store.FetchProfile(ctx)
				snap := a.Store.Snapshot()
				if snap.Profile == nil {
					if snap.LastProfileError != "" {
						return errors.New(snap.LastProfileError)
					}
					return errors.New("profile not available")
				}
				return a.printJSON(snap.Profile)
			}
		},
	}
}

func profileUpdateCmd() command {
	return command{
		name:  "profile-update",
		route: navigation.RouteProfile,
		help:  "update email, phone, password or address",
		setup: func(fs *flag.FlagSet) runFunc {
			upd := domain.ProfileUpdate{}
			fs.StringVar(&upd.Email, "email", "", "new email")
			fs.StringVar(&upd.PhoneNumber, "phone", "", "new phone number")
			fs.StringVar(&upd.Password, "password", "", "new password")
			addr := addressFlags(fs)
			return func(ctx context.Context, a *App) error {
				upd.Address = addr()
				if upd == (domain.ProfileUpdate{}) {
					return usageError("nothing to update")
				}
				profile, err := a.Store.UpdateProfile(ctx, a.Store.UserID(), upd)
				if err != nil {
					return err
				}
				return a.printJSON(profile)
			}
		},
	}
}

func roomsCmd() command {
	return command{
		name:  "rooms",
		route: navigation.RouteRooms,
		help:  "list rooms, available ones when both dates are given",
		setup: func(fs *flag.FlagSet) runFunc {
			dates := domain.DateRange{}
			fs.StringVar(&dates.StartDate, "start", "", "first night, YYYY-MM-DD")
			fs.StringVar(&dates.EndDate, "end", "", "departure day, YYYY-MM-DD")
			return func(ctx context.Context, a *App) error {
				resp, err := a.API.Rooms.FindAvailable(ctx, dates)
				if err != nil {
					return err
				}
				return a.printBody(resp)
			}
		},
	}
}

func roomCmd() command {
	return command{
		name:  "room",
		route: navigation.RouteRooms,
		help:  "show one room by number",
		setup: func(fs *flag.FlagSet) runFunc {
			number := fs.Int("number", 0, "room number")
			return func(ctx context.Context, a *App) error {
				if *number <= 0 {
					return usageError("--number is required")
				}
				resp, err := a.API.Rooms.GetByNumber(ctx, *number)
				if err != nil {
					return err
				}
				return a.printBody(resp)
			}
		},
	}
}

func servicesCmd() command {
	return command{
		name:  "services",
		route: navigation.RouteMyReservations,
		help:  "list bookable extra services",
		setup: func(fs *flag.FlagSet) runFunc {
			return func(ctx context.Context, a *App) error {
				resp, err := a.API.Catalog.List(ctx)
				if err != nil {
					return err
				}
				return a.printBody(resp)
			}
		},
	}
}

func reservationsCmd() command {
	return command{
		name:  "reservations",
		route: navigation.RouteMyReservations,
		help:  "list your reservations",
		setup: func(fs *flag.FlagSet) runFunc {
			return func(ctx context.Context, a *App) error {
				resp, err := a.API.Reservations.Mine(ctx)
				if err != nil {
					return err
				}
				return a.printBody(resp)
			}
		},
	}
}

func reserveCmd() command {
	return command{
		name:  "reserve",
		route: navigation.RouteMyReservations,
		help:  "book rooms for a date range",
		setup: func(fs *flag.FlagSet) runFunc {
			start := fs.String("start", "", "first night, YYYY-MM-DD")
			end := fs.String("end", "", "departure day, YYYY-MM-DD")
			rooms := fs.String("rooms", "", "comma separated room numbers")
			return func(ctx context.Context, a *App) error {
				numbers, err := parseInts(*rooms)
				if err != nil || len(numbers) == 0 || *start == "" || *end == "" {
					return usageError("--start, --end and --rooms are required")
				}
				resp, err := a.API.Reservations.Create(ctx, domain.ReservationRequest{
					StartDate:   *start,
					EndDate:     *end,
					RoomNumbers: numbers,
				})
				if err != nil {
					return err
				}
				return a.printBody(resp)
			}
		},
	}
}

func cancelCmd() command {
	return command{
		name:  "cancel",
		route: navigation.RouteMyReservations,
		help:  "cancel a reservation",
		setup: func(fs *flag.FlagSet) runFunc {
			id := fs.Int("id", 0, "reservation id")
			return func(ctx context.Context, a *App) error {
				if *id <= 0 {
					return usageError("--id is required")
				}
				resp, err := a.API.Reservations.Cancel(ctx, *id)
				if err != nil {
					return err
				}
				return a.printBody(resp)
			}
		},
	}
}

func addServicesCmd() command {
	return command{
		name:  "add-services",
		route: navigation.RouteMyReservations,
		help:  "attach extra services to a reservation",
		setup: func(fs *flag.FlagSet) runFunc {
			id := fs.Int("id", 0, "reservation id")
			services := fs.String("services", "", "comma separated service ids")
			return func(ctx context.Context, a *App) error {
				ids, err := parseInts(*services)
				if err != nil || len(ids) == 0 || *id <= 0 {
					return usageError("--id and --services are required")
				}
				resp, err := a.API.Reservations.AddServices(ctx, *id, domain.AddServicesRequest{ServiceIDs: ids})
				if err != nil {
					return err
				}
				return a.printBody(resp)
			}
		},
	}
}

func adminRoomsCmd() command {
	return command{
		name:  "admin-rooms",
		route: navigation.RouteAdminRooms,
		help:  "list every room, including unavailable ones",
		setup: func(fs *flag.FlagSet) runFunc {
			return func(ctx context.Context, a *App) error {
				resp, err := a.API.AdminRooms.List(ctx)
				if err != nil {
					return err
				}
				return a.printBody(resp)
			}
		},
	}
}

func adminRoomCreateCmd() command {
	return command{
		name:  "admin-room-create",
		route: navigation.RouteAdminRooms,
		help:  "create a room",
		setup: func(fs *flag.FlagSet) runFunc {
			req := domain.RoomRequest{}
			fs.IntVar(&req.Number, "number", 0, "room number")
			fs.IntVar(&req.Floor, "floor", 0, "floor")
			fs.StringVar(&req.Name, "name", "", "display name")
			fs.Float64Var(&req.Price, "price", 0, "price per night")
			fs.IntVar(&req.RoomTypeID, "type", 0, "room type id")
			fs.StringVar(&req.Description, "description", "", "description")
			available := fs.Bool("available", true, "open for booking")
			return func(ctx context.Context, a *App) error {
				if req.Number <= 0 || req.Name == "" || req.RoomTypeID <= 0 {
					return usageError("--number, --name and --type are required")
				}
				req.IsAvailable = available
				resp, err := a.API.AdminRooms.Create(ctx, req)
				if err != nil {
					return err
				}
				return a.printBody(resp)
			}
		},
	}
}

func adminRoomUpdateCmd() command {
	return command{
		name:  "admin-room-update",
		route: navigation.RouteAdminRooms,
		help:  "change the given fields of a room",
		setup: func(fs *flag.FlagSet) runFunc {
			id := fs.Int("id", 0, "room id")
			name := fs.String("name", "", "display name")
			description := fs.String("description", "", "description")
			price := fs.Float64("price", 0, "price per night")
			roomType := fs.Int("type", 0, "room type id")
			available := fs.Bool("available", true, "open for booking")
			return func(ctx context.Context, a *App) error {
				if *id <= 0 {
					return usageError("--id is required")
				}

				// Only flags given on the command line are sent
				upd := domain.RoomUpdate{}
				fs.Visit(func(f *flag.Flag) {
					switch f.Name {
					case "name":
						upd.Name = name
					case "description":
						upd.Description = description
					case "price":
						upd.Price = price
					case "type":
						upd.RoomTypeID = roomType
					case "available":
						upd.IsAvailable = available
					}
				})
				if upd == (domain.RoomUpdate{}) {
					return usageError("nothing to update")
				}

				resp, err := a.API.AdminRooms.Update(ctx, *id, upd)
				if err != nil {
					return err
				}
				return a.printBody(resp)
			}
		},
	}
}

func adminRoomDeleteCmd() command {
	return command{
		name:  "admin-room-delete",
		route: navigation.RouteAdminRooms,
		help:  "delete a room",
		setup: func(fs *flag.FlagSet) runFunc {
			id := fs.Int("id", 0, "room id")
			return func(ctx context.Context, a *App) error {
				if *id <= 0 {
					return usageError("--id is required")
				}
				resp, err := a.API.AdminRooms.Delete(ctx, *id)
				if err != nil {
					return err
				}
				return a.printBody(resp)
			}
		},
	}
}

// addressFlags registers the address flags and returns a getter yielding
// nil when none were given
func addressFlags(fs *flag.FlagSet) func() *domain.Address {
	addr := domain.Address{}
	fs.StringVar(&addr.City, "city", "", "city")
	fs.StringVar(&addr.Street, "street", "", "street and number")
	fs.IntVar(&addr.PostalCode, "postalcode", 0, "postal code")
	return func() *domain.Address {
		if addr == (domain.Address{}) {
			return nil
		}
		a := addr
		return &a
	}
}

func parseInts(csv string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}

func (a *App) printSession() error {
	snap := a.Store.Snapshot()
	return a.printJSON(struct {
		Authenticated bool `json:"authenticated"`
		domain.Session
	}{snap.IsAuthenticated(), snap})
}
